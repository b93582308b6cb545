package hgvs

import (
	"fmt"
	"regexp"
)

var (
	chromosomeRegex   = regexp.MustCompile(`0+([1-9][0-9]?)\.`)
	coordinateRegex   = regexp.MustCompile(`g\.([0-9]+_?[0-9]*)`)
	substitutionRegex = regexp.MustCompile(`([A-Z])>([A-Z])`)
)

// GenomicVariant is the VCF-like view of a remapped variant.
// Empty fields mean the field could not be parsed from the genomic
// notation; for Ref and Alt that is every variant that is not a simple
// substitution, which downstream review relies on.
type GenomicVariant struct {
	Chrom      string // chromosome number without leading zeros, e.g. "1"
	Coordinate string // position, or "start_end" for ranges
	Ref        string
	Alt        string
}

// ParseGenomic extracts all VCF fields from a genomic HGVS string such as
// NC_000001.10:g.229568620A>G.
func ParseGenomic(mapping string) GenomicVariant {
	return GenomicVariant{
		Chrom:      ChromosomeNumber(mapping),
		Coordinate: Coordinates(mapping),
		Ref:        Ref(mapping),
		Alt:        Alt(mapping),
	}
}

// Parsed reports whether the chromosome and coordinate were found.
func (g GenomicVariant) Parsed() bool {
	return g.Chrom != "" && g.Coordinate != ""
}

// IsSNV reports whether the variant was parsed as a single base substitution.
func (g GenomicVariant) IsSNV() bool {
	return g.Parsed() && g.Ref != "" && g.Alt != ""
}

// String formats the variant as chrom:pos ref>alt.
func (g GenomicVariant) String() string {
	return fmt.Sprintf("%s:%s %s>%s", g.Chrom, g.Coordinate, g.Ref, g.Alt)
}

// ChromosomeNumber returns the chromosome number from the zero-padded
// NC_0000##.# accession, or "" if there is none.
func ChromosomeNumber(mapping string) string {
	if m := chromosomeRegex.FindStringSubmatch(mapping); m != nil {
		return m[1]
	}
	return ""
}

// Coordinates returns the position (or underscore-joined range) after g.
func Coordinates(mapping string) string {
	if m := coordinateRegex.FindStringSubmatch(mapping); m != nil {
		return m[1]
	}
	return ""
}

// Ref returns the reference base of a substitution, or "".
func Ref(mapping string) string {
	if m := substitutionRegex.FindStringSubmatch(mapping); m != nil {
		return m[1]
	}
	return ""
}

// Alt returns the alternate base of a substitution, or "".
func Alt(mapping string) string {
	if m := substitutionRegex.FindStringSubmatch(mapping); m != nil {
		return m[2]
	}
	return ""
}
