package hgvs

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAACodes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GLU", "E"},
		{"glu", "E"},
		{"met", "M"},
		{"E", "E"},
		{"k", "K"},
		{"*", "*"},
		{"X", "*"},
		{"xaa", "*"},
		{"Scy", "*"},
		{"del", "DEL"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := MapAACodes(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapAACodes_Unrecognized(t *testing.T) {
	for _, in := range []string{"???", "FOO", "Gl"} {
		_, err := MapAACodes(in)
		assert.ErrorIs(t, err, ErrUnrecognizedCode, in)
	}
}

func TestParseGenomic_SNV(t *testing.T) {
	m := "NC_000001.10:g.229568620A>G"

	assert.Equal(t, "1", ChromosomeNumber(m))
	assert.Equal(t, "229568620", Coordinates(m))
	assert.Equal(t, "A", Ref(m))
	assert.Equal(t, "G", Alt(m))

	g := ParseGenomic(m)
	assert.True(t, g.Parsed())
	assert.True(t, g.IsSNV())
	assert.Equal(t, "1:229568620 A>G", g.String())
}

func TestParseGenomic_TwoDigitChromosome(t *testing.T) {
	g := ParseGenomic("NC_000023.10:g.31496384G>A")
	assert.Equal(t, "23", g.Chrom)
	assert.Equal(t, "31496384", g.Coordinate)
}

func TestParseGenomic_Indels(t *testing.T) {
	tests := []struct {
		mapping    string
		coordinate string
	}{
		{"NC_000001.10:g.229568620del", "229568620"},
		{"NC_000001.10:g.229568620_229568622del", "229568620_229568622"},
		{"NC_000001.10:g.229568620_229568621insT", "229568620_229568621"},
		{"NC_000001.10:g.229568620dup", "229568620"},
	}

	for _, tt := range tests {
		t.Run(tt.mapping, func(t *testing.T) {
			g := ParseGenomic(tt.mapping)
			assert.Equal(t, "1", g.Chrom)
			assert.Equal(t, tt.coordinate, g.Coordinate)
			assert.Empty(t, g.Ref)
			assert.Empty(t, g.Alt)
			assert.False(t, g.IsSNV())
		})
	}
}

func TestParseGenomic_Unparseable(t *testing.T) {
	g := ParseGenomic("")
	assert.False(t, g.Parsed())
	assert.Equal(t, GenomicVariant{}, g)

	assert.Empty(t, ChromosomeNumber("garbage"))
}

func TestParseGenomic_RoundTrip(t *testing.T) {
	mappings := []string{
		"NC_000001.10:g.229568839G>T",
		"NC_000007.10:g.117199644A>C",
		"NC_000017.10:g.41197708T>G",
		"NC_000022.10:g.29091857C>T",
	}

	for _, m := range mappings {
		g := ParseGenomic(m)
		chrom, err := strconv.Atoi(g.Chrom)
		require.NoError(t, err)
		rebuilt := fmt.Sprintf("NC_0000%02d.10:g.%s%s>%s", chrom, g.Coordinate, g.Ref, g.Alt)
		assert.Equal(t, m, rebuilt)
	}
}
