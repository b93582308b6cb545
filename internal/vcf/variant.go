// Package vcf reads and writes the 8-column VCF subset used for remapped
// LOVD variants and their annotated counterparts.
package vcf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// Missing is the VCF placeholder for an absent value.
const Missing = "."

// Variant is one data row of a VCF file.
type Variant struct {
	Chrom  string // chromosome name (e.g., "1", "chr1")
	Pos    string // position; remapped indels may carry a "start_end" range
	ID     string
	Ref    string // reference base, "" when the remapped variant is not an SNV
	Alt    string
	Qual   string
	Filter string
	Info   string // raw semicolon-delimited INFO column
}

// Position returns the start position as an integer.
func (v *Variant) Position() (int64, error) {
	start, _, _ := strings.Cut(v.Pos, "_")
	n, err := strconv.ParseInt(start, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid position %q", v.Pos)
	}
	return n, nil
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1 && v.Ref != Missing && v.Alt != Missing
}

// NeedsReview reports whether REF or ALT could not be determined, which is
// the case for every remapped variant that is not a simple substitution.
func (v *Variant) NeedsReview() bool {
	return v.Ref == "" || v.Alt == "" || v.Ref == Missing || v.Alt == Missing
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// InfoValue returns the value of tag in the INFO column.
func (v *Variant) InfoValue(tag string) (string, error) {
	return hgvs.GetTaggedEntryValue(v.Info, tag)
}

// FromGenomic builds a VCF row from a parsed genomic variant.
func FromGenomic(g hgvs.GenomicVariant, id, info string) Variant {
	return Variant{
		Chrom:  g.Chrom,
		Pos:    g.Coordinate,
		ID:     orMissing(id),
		Ref:    g.Ref,
		Alt:    g.Alt,
		Qual:   Missing,
		Filter: Missing,
		Info:   orMissing(info),
	}
}

func orMissing(s string) string {
	if s == "" {
		return Missing
	}
	return s
}
