// Package hgvs provides string-level helpers for HGVS variant notation:
// cleanup of scraped LOVD text, p-dot handling, amino acid code
// normalization, INFO tag lookups and genomic notation parsing.
package hgvs

import (
	"fmt"
	"regexp"
	"strings"
)

// Default delimiters of a VCF INFO column.
const (
	DefaultEntryDelim = ";"
	DefaultValueDelim = ","
)

// noChangePlaceholder is used by LOVD for "no change reported".
const noChangePlaceholder = "-"

var (
	timesReportedRegex = regexp.MustCompile(`(?i)\s*\(Reported \d+ Times\)\s*`)
	pDotRegex          = regexp.MustCompile(`^[pP]\.[(\[]?([^)\]]+)[)\]]?`)
	pmidRegex          = regexp.MustCompile(`\d{4,}`)
	omimRegex          = regexp.MustCompile(`\d+#\d+`)
	noChangeRegex      = regexp.MustCompile(`^[cgnmr]\.[(\[<]?(?:=|\?|-|0)?[)\]>]?$`)
)

// RemoveTimesReported strips a "(Reported N times)" annotation and the
// whitespace around it. Text without the annotation is returned unchanged.
func RemoveTimesReported(text string) string {
	if !timesReportedRegex.MatchString(text) {
		return text
	}
	return timesReportedRegex.ReplaceAllString(text, "")
}

// CorrectHGVSParentheses balances a description such as "c.(123A>G" or
// "c.123A>G)" that lost one parenthesis during cleanup.
func CorrectHGVSParentheses(text string) string {
	open := strings.Count(text, "(")
	closed := strings.Count(text, ")")
	switch {
	case open > closed:
		return text + strings.Repeat(")", open-closed)
	case closed > open:
		for ; closed > open; closed-- {
			i := strings.LastIndex(text, ")")
			text = text[:i] + text[i+1:]
		}
	}
	return text
}

// RemovePDotNotation returns the change inside p.X, p.(X) or p.[X].
// A missing opening or closing bracket is tolerated. The placeholder "-"
// is returned unchanged.
func RemovePDotNotation(text string) (string, error) {
	if text == noChangePlaceholder {
		return text, nil
	}
	m := pDotRegex.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%w: expected p.change, p.(change) or p.[change], got %q", ErrInvalidNotation, text)
	}
	return m[1], nil
}

// GetPMID returns the PubMed ID (the first run of four or more digits)
// embedded in a PubMed link.
func GetPMID(url string) (string, error) {
	id := pmidRegex.FindString(url)
	if id == "" {
		return "", fmt.Errorf("%w: no 4+ digit PubMed ID in %q", ErrMalformedURL, url)
	}
	return id, nil
}

// GetOMIMID returns the "<gene>#<entry>" OMIM identifier from an OMIM link,
// e.g. 102610#0003 for http://www.omim.org/entry/102610#0003.
func GetOMIMID(url string) (string, error) {
	id := omimRegex.FindString(url)
	if id == "" {
		return "", fmt.Errorf("%w: no OMIM ID in %q", ErrMalformedURL, url)
	}
	return id, nil
}

// IsNoChange reports whether the description part of an HGVS variant
// denotes no change or an unknown change (c.=, c.(=), c.?, c.0, c.-).
// Such variants cannot be remapped.
func IsNoChange(variant string) bool {
	desc := variant
	if i := strings.LastIndexByte(variant, ':'); i >= 0 {
		desc = variant[i+1:]
	}
	return noChangeRegex.MatchString(strings.TrimSpace(desc))
}

// GetTaggedEntryValue returns the value of TAG=VALUE in a semicolon
// delimited INFO column. The tag must match exactly.
func GetTaggedEntryValue(info, tag string) (string, error) {
	return taggedEntryValue(info, tag, DefaultEntryDelim)
}

func taggedEntryValue(info, tag, entryDelim string) (string, error) {
	for _, entry := range strings.Split(info, entryDelim) {
		key, value, _ := strings.Cut(entry, "=")
		if key == tag {
			return value, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTagNotFound, tag)
}

// GetUniqueTaggedEntryValues returns the distinct values listed under tag.
// Empty values and "-" placeholders are dropped; first-seen order is kept.
func GetUniqueTaggedEntryValues(info, tag, entryDelim, valueDelim string) ([]string, error) {
	raw, err := taggedEntryValue(info, tag, entryDelim)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	values := []string{}
	for _, v := range strings.Split(raw, valueDelim) {
		if v == "" || v == noChangePlaceholder || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values, nil
}
