package hgvs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveTimesReported(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trailing annotation", "c.5235A>G (Reported 403 Times)", "c.5235A>G"},
		{"lower case", "c.5235A>G (reported 3 times)", "c.5235A>G"},
		{"embedded", "c.(5235A>G (Reported 2 times))", "c.(5235A>G)"},
		{"no annotation keeps whitespace", "  c.5235A>G  ", "  c.5235A>G  "},
		{"empty", "", ""},
		{"no digits is not an annotation", "c.1A>G (Reported times)", "c.1A>G (Reported times)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemoveTimesReported(tt.in))
		})
	}
}

func TestCorrectHGVSParentheses(t *testing.T) {
	assert.Equal(t, "c.(123A>G)", CorrectHGVSParentheses("c.(123A>G"))
	assert.Equal(t, "c.123A>G", CorrectHGVSParentheses("c.123A>G)"))
	assert.Equal(t, "c.(123A>G)", CorrectHGVSParentheses("c.(123A>G)"))
}

func TestRemovePDotNotation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "p.Gly47Arg", "Gly47Arg"},
		{"parentheses", "p.(Lys5799Glu)", "Lys5799Glu"},
		{"brackets", "p.[Lys5799Glu]", "Lys5799Glu"},
		{"missing closing", "p.(Met563Lys", "Met563Lys"},
		{"missing opening", "p.Met563Lys)", "Met563Lys"},
		{"upper case prefix", "P.(Tyr657Gly)", "Tyr657Gly"},
		{"no change", "p.(=)", "="},
		{"placeholder", "-", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RemovePDotNotation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemovePDotNotation_Invalid(t *testing.T) {
	for _, in := range []string{"Gly47Arg", "c.123A>G", "", "xp.Gly47Arg"} {
		_, err := RemovePDotNotation(in)
		assert.ErrorIs(t, err, ErrInvalidNotation, in)
	}
}

func TestRemovePDotNotation_AppliedTwice(t *testing.T) {
	once, err := RemovePDotNotation("p.(Gly47Arg)")
	require.NoError(t, err)

	_, err = RemovePDotNotation(once)
	assert.ErrorIs(t, err, ErrInvalidNotation)

	placeholder, err := RemovePDotNotation("-")
	require.NoError(t, err)
	again, err := RemovePDotNotation(placeholder)
	require.NoError(t, err)
	assert.Equal(t, "-", again)
}

func TestGetPMID(t *testing.T) {
	id, err := GetPMID("http://www.ncbi.nlm.nih.gov/pubmed/19562689")
	require.NoError(t, err)
	assert.Equal(t, "19562689", id)

	_, err = GetPMID("http://www.ncbi.nlm.nih.gov/pubmed/34")
	assert.ErrorIs(t, err, ErrMalformedURL)
}

func TestGetOMIMID(t *testing.T) {
	id, err := GetOMIMID("http://www.omim.org/entry/102610#0003")
	require.NoError(t, err)
	assert.Equal(t, "102610#0003", id)

	_, err = GetOMIMID("http://www.omim.org/entry/102610")
	assert.ErrorIs(t, err, ErrMalformedURL)
}

func TestIsNoChange(t *testing.T) {
	for _, v := range []string{"NM_001100.3:c.=", "NM_001100.3:c.(=)", "NM_001100.3:c.?", "NM_001100.3:c.0", "c.-"} {
		assert.True(t, IsNoChange(v), v)
	}
	for _, v := range []string{"NM_001100.3:c.24C>A", "NM_001100.3:c.990+1G>T", "NM_001100.3:c.12del"} {
		assert.False(t, IsNoChange(v), v)
	}
}

func TestGetTaggedEntryValue(t *testing.T) {
	info := "LAA_CHANGE=p.(Gly456Tyr);AA_CHANGE=G/Y;AA_CHANGE_EXTRA=X"

	v, err := GetTaggedEntryValue(info, "AA_CHANGE")
	require.NoError(t, err)
	assert.Equal(t, "G/Y", v)

	_, err = GetTaggedEntryValue(info, "CHANGE")
	assert.ErrorIs(t, err, ErrTagNotFound)
}

func TestGetUniqueTaggedEntryValues(t *testing.T) {
	tests := []struct {
		name string
		info string
		tag  string
		want []string
	}{
		{"single item", "LAA_CHANGE=ENTRY", "LAA_CHANGE", []string{"ENTRY"}},
		{"first of several", "LAA_CHANGE=ENTRY;AA_CHANGE=ENTRY2", "LAA_CHANGE", []string{"ENTRY"}},
		{"second of several", "LAA_CHANGE=ENTRY;SECOND_TAG=ENTRY2", "SECOND_TAG", []string{"ENTRY2"}},
		{"exact tag match", "LAA_CHANGE=ENTRY;AA_ENTRY=ENTRY2", "AA_ENTRY", []string{"ENTRY2"}},
		{"empty value", "LAA_CHANGE=;AA_ENTRY=ENTRY2", "LAA_CHANGE", []string{}},
		{"value list", "LAA_CHANGE=A,B,C,D;AA_ENTRY=E,F,G,H", "LAA_CHANGE", []string{"A", "B", "C", "D"}},
		{"duplicates and placeholders", "TAG=A,-,A,,B", "TAG", []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetUniqueTaggedEntryValues(tt.info, tt.tag, DefaultEntryDelim, DefaultValueDelim)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestGetUniqueTaggedEntryValues_Missing(t *testing.T) {
	_, err := GetUniqueTaggedEntryValues("LAA_CHANGE=ENTRY;AA_CHANGE=ENTRY2", "NOT_IN_LIST", ";", ",")
	assert.ErrorIs(t, err, ErrTagNotFound)
	assert.Equal(t, "TagNotFound", KindOf(err))
}

func TestGetUniqueTaggedEntryValues_CustomDelimiters(t *testing.T) {
	got, err := GetUniqueTaggedEntryValues("A=1|2|2&B=3", "A", "&", "|")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, got)
}
