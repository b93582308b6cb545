package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macarthurlab/leiden/internal/concordance"
	"github.com/macarthurlab/leiden/internal/hgvs"
	"github.com/macarthurlab/leiden/internal/output"
	"github.com/macarthurlab/leiden/internal/remap"
)

// stubRemapper answers from a fixed map and records its inputs.
type stubRemapper struct {
	genomic map[string]string
	cached  map[string]bool
	inputs  []string
}

func (s *stubRemapper) RemapAll(_ context.Context, variants []string) []remap.Result {
	s.inputs = append(s.inputs, variants...)
	results := make([]remap.Result, len(variants))
	for i, v := range variants {
		g, ok := s.genomic[v]
		if !ok {
			results[i] = remap.Result{Input: v, Err: fmt.Errorf("%w: %s", remap.ErrRemapping, v)}
			continue
		}
		results[i] = remap.Result{Input: v, Genomic: g, Variant: hgvs.ParseGenomic(g), Cached: s.cached[v]}
	}
	return results
}

func acta1Table() Table {
	return Table{
		Gene:    "ACTA1",
		Headers: []string{"exon", "dna_change", "protein", "reference"},
		Rows: [][]string{
			{"02", "NM_001100.3:c.24C>A", "p.(Tyr8*)", "PMID=19562689"},
			{"03", "NM_001100.3:c.50del", "p.(Lys17fs)", ""},
			{"04", "NM_001100.3:c.99A>G", "p.(=)", ""},
			{"05", "", "p.?", ""},
			{"06", "http://example.org,NM_001100.3:c.60C>T", "p.(Ala20Val)", ""},
			{"07", "NM_001100.3:c.70C>T", "p.(Arg24Cys)", ""},
		},
	}
}

func acta1Remapper() *stubRemapper {
	return &stubRemapper{
		genomic: map[string]string{
			"NM_001100.3:c.24C>A": "NC_000001.10:g.229568839G>T",
			"NM_001100.3:c.50del": "NC_000001.10:g.229568813del",
			"NM_001100.3:c.60C>T": "NC_000001.10:g.229568803G>A",
			"NM_001100.3:c.70C>T": "garbage",
		},
		cached: map[string]bool{"NM_001100.3:c.24C>A": true},
	}
}

func TestGenerate(t *testing.T) {
	rm := acta1Remapper()
	res, err := NewGenerator(rm).Generate(context.Background(), acta1Table())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"NM_001100.3:c.24C>A",
		"NM_001100.3:c.50del",
		"NM_001100.3:c.99A>G",
		"NM_001100.3:c.60C>T",
		"NM_001100.3:c.70C>T",
	}, rm.inputs)

	require.Len(t, res.Variants, 3)

	snv := res.Variants[0]
	assert.Equal(t, "1", snv.Chrom)
	assert.Equal(t, "229568839", snv.Pos)
	assert.Equal(t, "G", snv.Ref)
	assert.Equal(t, "T", snv.Alt)
	assert.Equal(t, "HGVS=NM_001100.3:c.24C>A;LAA_CHANGE=p.(Tyr8*)", snv.Info)
	assert.False(t, snv.NeedsReview())

	del := res.Variants[1]
	assert.Equal(t, "229568813", del.Pos)
	assert.True(t, del.NeedsReview())

	assert.Equal(t, "HGVS=NM_001100.3:c.60C>T;LAA_CHANGE=p.(Ala20Val)", res.Variants[2].Info)

	require.Len(t, res.Errors, 3)
	assert.Empty(t, res.Errors[0].Variant, "row without HGVS notation")
	assert.Equal(t, "NM_001100.3:c.99A>G", res.Errors[1].Variant)
	assert.ErrorIs(t, res.Errors[1].Err, remap.ErrRemapping)
	assert.Equal(t, "NM_001100.3:c.70C>T", res.Errors[2].Variant)
	assert.Contains(t, res.Errors[2].Err.Error(), "unparseable")

	assert.Equal(t, output.RemapSummary{
		Gene: "ACTA1", Variants: 6, Remapped: 3, Cached: 1, Failed: 3, NeedsReview: 1,
	}, res.Summary)
}

func TestGenerate_MissingColumn(t *testing.T) {
	_, err := NewGenerator(acta1Remapper()).Generate(context.Background(), Table{
		Gene:    "ACTA1",
		Headers: []string{"exon", "protein"},
	})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestWriteVCF(t *testing.T) {
	res, err := NewGenerator(acta1Remapper()).Generate(context.Background(), acta1Table())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteVCF(&buf, res.Variants))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "##fileformat=VCFv4.0", lines[0])
	assert.Equal(t, `##INFO=<ID=HGVS,Number=1,Type=String,Description="LOVD HGVS notation describing DNA change">`, lines[1])
	assert.Equal(t, `##INFO=<ID=LAA_CHANGE,Number=1,Type=String,Description="LOVD amino acid change">`, lines[2])
	assert.Equal(t, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO", lines[3])
	assert.Equal(t, "1\t229568839\t.\tG\tT\t.\t.\tHGVS=NM_001100.3:c.24C>A;LAA_CHANGE=p.(Tyr8*)", lines[4])
	assert.Equal(t, "1\t229568813\t.\t.\t.\t.\t.\tHGVS=NM_001100.3:c.50del;LAA_CHANGE=p.(Lys17fs)", lines[5])
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTA1.txt")
	tbl := acta1Table()
	require.NoError(t, output.WriteTableFile(path, tbl.Headers, tbl.Rows[:2]))

	got, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "ACTA1", got.Gene)
	assert.Equal(t, tbl.Headers, got.Headers)
	assert.Equal(t, tbl.Rows[:2], got.Rows)
}

const annotatedVCF = `##fileformat=VCFv4.0
##INFO=<ID=HGVS,Number=1,Type=String,Description="LOVD HGVS notation describing DNA change">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
1	229568839	.	G	T	.	.	HGVS=NM_001100.3:c.24C>A;LAA_CHANGE=p.(Tyr8*);AA_CHANGE=Y/*
1	229568803	.	G	A	.	.	HGVS=NM_001100.3:c.60C>T;LAA_CHANGE=p.(Ala20Val);AA_CHANGE=A/T
1	229568813	.	.	.	.	.	HGVS=NM_001100.3:c.50del;LAA_CHANGE=p.(Lys17fs);AA_CHANGE=
`

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	acta1 := filepath.Join(dir, "ACTA1.vcf")
	require.NoError(t, os.WriteFile(acta1, []byte(annotatedVCF), 0o644))
	missing := filepath.Join(dir, "DMD.vcf")

	v := ValidateFiles([]string{acta1, missing}, nil)

	r := v.Report
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Concordant)
	assert.Equal(t, 1, r.Discordant)
	assert.Equal(t, 1, r.Errors)
	require.Len(t, r.Files, 2)
	assert.Equal(t, concordance.FileSummary{File: missing}, r.Files[1])
	require.Len(t, v.Header, 3)

	concordant, other := v.Split()
	require.Len(t, concordant, 1)
	require.Len(t, other, 2)
	assert.Equal(t, "229568803", other[0].Pos)

	out := filepath.Join(dir, "lovd_validated_variants.vcf")
	require.NoError(t, v.WriteVariantsFile(out, concordant))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "##fileformat=VCFv4.0", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "1\t229568839\t"))
}

func TestWriteVariantsFile_NoHeader(t *testing.T) {
	v := &Validation{Report: concordance.NewReport()}
	out := filepath.Join(t.TempDir(), "empty.vcf")
	require.NoError(t, v.WriteVariantsFile(out, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n", string(data))
}
