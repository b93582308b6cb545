package concordance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

var spliceRegex = regexp.MustCompile(`([+-]\d+)([ACGT])>`)

// conservedSpliceSites are the intronic offset/base pairs conserved at
// donor (+1G, +2T) and acceptor (-1G, -2A) sites.
var conservedSpliceSites = map[string]bool{
	"+1G": true,
	"+2T": true,
	"-1G": true,
	"-2A": true,
}

// IsSpliceSite reports whether the most severe predicted consequence is a
// splice donor or acceptor variant.
func IsSpliceSite(severeImpact string) bool {
	s := strings.ToLower(severeImpact)
	return strings.Contains(s, "splice_donor") || strings.Contains(s, "splice_acceptor")
}

// IsConcordantSpliceMutation checks a splice variant against the predicted
// splice position. The intronic offset and base from the HGVS tag must
// agree with SPLICE_POS and with ref, and must be one of the conserved
// sites; every other splice position cannot be validated and is reported
// as not concordant.
func IsConcordantSpliceMutation(info, ref string) (bool, error) {
	variant, err := hgvs.GetTaggedEntryValue(info, TagHGVS)
	if err != nil {
		return false, err
	}
	splicePos, err := hgvs.GetTaggedEntryValue(info, TagSplicePos)
	if err != nil {
		return false, err
	}

	m := spliceRegex.FindStringSubmatch(variant)
	if m == nil {
		return false, fmt.Errorf("%w: no intronic substitution in %s", ErrUnexpectedFormat, variant)
	}
	offset, base := m[1], m[2]

	if normalizeOffset(splicePos) != offset {
		return false, nil
	}
	if !strings.EqualFold(base, ref) {
		return false, nil
	}
	return conservedSpliceSites[offset+base], nil
}

// normalizeOffset writes a SPLICE_POS value with an explicit sign.
func normalizeOffset(pos string) string {
	pos = strings.TrimSpace(pos)
	if pos == "" || pos[0] == '+' || pos[0] == '-' {
		return pos
	}
	return "+" + pos
}
