package concordance

import (
	"errors"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

var (
	// ErrUnexpectedFormat is returned when a tagged value does not have
	// the expected shape.
	ErrUnexpectedFormat = errors.New("unexpected format")

	// ErrIndelDetected is returned for LOVD protein changes describing
	// insertions, deletions or frameshifts, which cannot be compared at
	// the amino acid level.
	ErrIndelDetected = errors.New("indel detected")
)

// KindOf names the error category of err for logs and reports, or returns
// "" for errors outside the taxonomy.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrUnexpectedFormat):
		return "UnexpectedFormat"
	case errors.Is(err, ErrIndelDetected):
		return "IndelDetected"
	}
	return hgvs.KindOf(err)
}
