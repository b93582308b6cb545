// Package concordance decides whether the protein change reported by LOVD
// agrees with the change predicted by an external annotator for the same
// remapped variant, and collects the per-variant decision records.
package concordance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// INFO tags read from annotated VCF rows.
const (
	TagHGVS         = "HGVS"
	TagLAAChange    = "LAA_CHANGE"
	TagAAChange     = "AA_CHANGE"
	TagSevereImpact = "SEVERE_IMPACT"
	TagSplicePos    = "SPLICE_POS"
	TagHGMDSite     = "HGMD_SITE"
	TagHGMDMutation = "HGMD_MUT"
	TagDBSNP        = "DBSNP"
)

var (
	laaChangeRegex  = regexp.MustCompile(`([A-Za-z*?]{1,3})[\d+]+([A-Za-z*]{1,3})[A-Za-z*?]*\d*`)
	aaChangeRegex   = regexp.MustCompile(`([A-Za-z*]+)/([A-Za-z*]+)?`)
	synonymousRegex = regexp.MustCompile(`[A-Za-z*]`)
)

// indelMarkers flag LOVD protein changes that are not substitutions.
var indelMarkers = []string{"ins", "del", "fs"}

// noAAChange are LOVD protein change values meaning "no change".
var noAAChange = map[string]bool{"-": true, "=": true, "?": true}

// Change is an amino acid change. Before and After hold the codes as
// reported, which may be one- or three-letter codes; both are empty when
// no change was reported.
type Change struct {
	Before string
	After  string
}

// IsSynonymous reports whether the change keeps the same residue.
func (c Change) IsSynonymous() bool {
	return c.Before == c.After
}

// Mapped returns the change with both codes in single-letter form.
func (c Change) Mapped() (Change, error) {
	before, err := hgvs.MapAACodes(c.Before)
	if err != nil {
		return Change{}, err
	}
	after, err := hgvs.MapAACodes(c.After)
	if err != nil {
		return Change{}, err
	}
	return Change{Before: before, After: after}, nil
}

// String formats the change as before/after in single-letter codes,
// falling back to the raw codes if they cannot be mapped.
func (c Change) String() string {
	if m, err := c.Mapped(); err == nil {
		c = m
	}
	return c.Before + "/" + c.After
}

// GetLAAChange parses the LOVD protein change in the LAA_CHANGE tag, e.g.
// p.(Tyr457Gly) gives {Tyr, Gly}.
func GetLAAChange(info string) (Change, error) {
	raw, err := hgvs.GetTaggedEntryValue(info, TagLAAChange)
	if err != nil {
		return Change{}, err
	}

	value, err := hgvs.RemovePDotNotation(raw)
	if err != nil {
		return Change{}, err
	}

	lower := strings.ToLower(value)
	for _, marker := range indelMarkers {
		if strings.Contains(lower, marker) {
			return Change{}, fmt.Errorf("%w: %s", ErrIndelDetected, raw)
		}
	}

	if noAAChange[value] {
		return Change{}, nil
	}

	m := laaChangeRegex.FindStringSubmatch(value)
	if m == nil {
		return Change{}, fmt.Errorf("%w: LAA_CHANGE %s", ErrUnexpectedFormat, raw)
	}
	return Change{Before: m[1], After: m[2]}, nil
}

// GetAAChange parses the predicted changes in the AA_CHANGE tag, one per
// transcript (e.g. "W/T,A"). A single code denotes a synonymous change.
// When no entry can be parsed one empty change is returned.
func GetAAChange(info string) ([]Change, error) {
	raw, err := hgvs.GetTaggedEntryValue(info, TagAAChange)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, entry := range strings.Split(raw, hgvs.DefaultValueDelim) {
		if m := aaChangeRegex.FindStringSubmatch(entry); m != nil {
			changes = append(changes, Change{Before: m[1], After: m[2]})
			continue
		}
		if code := synonymousRegex.FindString(entry); code != "" {
			changes = append(changes, Change{Before: code, After: code})
		}
	}

	if len(changes) == 0 {
		return []Change{{}}, nil
	}
	return changes, nil
}
