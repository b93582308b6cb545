package vcf

// VariantReader is implemented by sources of VCF rows.
type VariantReader interface {
	// Next reads the next variant.
	// Returns nil, nil when there are no more variants.
	Next() (*Variant, error)

	// Close closes the reader and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
