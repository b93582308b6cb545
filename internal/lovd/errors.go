package lovd

import "errors"

var (
	// ErrUnsupportedVersion is returned when a site is not a LOVD 2 or
	// LOVD 3 installation.
	ErrUnsupportedVersion = errors.New("unsupported LOVD version")

	// ErrNoEntries is returned when a variant listing has no entry count.
	ErrNoEntries = errors.New("no entries found")

	// ErrGeneNotFound is returned for genes the installation does not list.
	ErrGeneNotFound = errors.New("gene not available")
)
