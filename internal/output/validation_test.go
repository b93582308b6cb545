package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macarthurlab/leiden/internal/concordance"
	"github.com/macarthurlab/leiden/internal/vcf"
)

func testReport(t *testing.T) *concordance.Report {
	t.Helper()

	r := concordance.NewReport()
	for _, v := range []*vcf.Variant{
		{Chrom: "1", Pos: "229568839", Ref: "G", Alt: "T",
			Info: "HGVS=NM_001100.3:c.24C>A;LAA_CHANGE=p.(Tyr8*);AA_CHANGE=Y/*;AC_MAC26K=6;AN_MAC26K=600"},
		{Chrom: "1", Pos: "229568900", Ref: "G", Alt: "T",
			Info: "HGVS=NM_001100.3:c.40G>T;LAA_CHANGE=p.(Gly14Cys);AA_CHANGE=G/W;SEVERE_IMPACT=missense_variant"},
		{Chrom: "1", Pos: ".", Ref: ".", Alt: ".",
			Info: "HGVS=NM_001100.3:c.50del;LAA_CHANGE=p.(Lys17fs);AA_CHANGE=;HGMD_SITE=CS1"},
	} {
		r.Add(concordance.Evaluate("ACTA1.vcf", v))
	}
	r.AddFile("DMD.vcf")
	return r
}

func TestLogRows(t *testing.T) {
	r := testReport(t)

	discordant := r.WithStatus(concordance.Discordant)
	require.Len(t, discordant, 1)
	row := DiscordantRow(discordant[0])
	require.Len(t, row, len(DiscordantHeader))
	assert.Equal(t, []string{
		"ACTA1.vcf",
		"NM_001100.3:c.40G>T",
		"1",
		"229568900",
		"G",
		"T",
		"http://genome.ucsc.edu/cgi-bin/hgTracks?db=hg19&position=chr1%3A229568875-229568925",
		"p.(Gly14Cys)",
		"G/C",
		"G/W",
		"missense_variant",
	}, row)

	errs := r.WithStatus(concordance.Error)
	require.Len(t, errs, 1)
	row = ProcessingErrorRow(errs[0])
	require.Len(t, row, len(ProcessingErrorsHeader))
	assert.Equal(t, "ACTA1.vcf", row[0])
	assert.True(t, strings.HasPrefix(row[1], "IndelDetected: "), row[1])
	assert.Equal(t, "NM_001100.3:c.50del", row[2])
	assert.Equal(t, "p.(Lys17fs)", row[3])
}

func TestWriteValidationLogs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteValidationLogs(dir, testReport(t)))

	errRows, err := ReadTableFile(filepath.Join(dir, ProcessingErrorsLog))
	require.NoError(t, err)
	require.Len(t, errRows, 2)
	assert.Equal(t, ProcessingErrorsHeader, errRows[0])

	discordantRows, err := ReadTableFile(filepath.Join(dir, DiscordantLog))
	require.NoError(t, err)
	require.Len(t, discordantRows, 2)
	assert.Equal(t, DiscordantHeader, discordantRows[0])
	assert.Equal(t, "NM_001100.3:c.40G>T", discordantRows[1][1])
}

func TestWriteRemapErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRemapErrors(&buf, []RemapError{
		{Gene: "ACTA1", Variant: "NM_001100.3:c.=", Err: errors.New("remapping failed")},
		{Gene: "DMD", Variant: "NM_004006.2:c.1A>G"},
	}))
	assert.Equal(t,
		"gene\thgvs\terror\nACTA1\tNM_001100.3:c.=\tremapping failed\nDMD\tNM_004006.2:c.1A>G\t\n",
		buf.String())

	dir := t.TempDir()
	require.NoError(t, WriteRemapErrorsFile(dir, nil))
	data, err := os.ReadFile(filepath.Join(dir, RemappingErrorsLog))
	require.NoError(t, err)
	assert.Equal(t, "gene\thgvs\terror\n", string(data))
}

func TestWriteValidationSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteValidationSummary(&buf, testReport(t))

	out := buf.String()
	assert.Contains(t, out, "Validation Summary")
	assert.Contains(t, out, "Concordant Annotations")
	assert.Contains(t, out, "Errors and Indels")
	assert.Contains(t, out, "HGMD Sites")
	assert.Contains(t, out, "26K Overlap Count")
	assert.Contains(t, out, "33.3%")
}

func TestWriteFileSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteFileSummary(&buf, testReport(t))

	out := buf.String()
	assert.Contains(t, out, "ACTA1.vcf")
	assert.Contains(t, out, "1 / 3 Concordant")
	assert.Contains(t, out, "DMD.vcf")
	assert.Contains(t, out, "could not be remapped")
}

func TestWriteRemapSummary(t *testing.T) {
	var buf bytes.Buffer
	WriteRemapSummary(&buf, []RemapSummary{
		{Gene: "ACTA1", Variants: 10, Remapped: 8, Cached: 3, Failed: 2, NeedsReview: 1},
		{Gene: "DMD", Variants: 5, Remapped: 5},
	})

	out := buf.String()
	assert.Contains(t, out, "Remapping Summary")
	assert.Contains(t, out, "ACTA1")
	assert.Contains(t, out, "DMD")
	assert.Contains(t, out, "15")
	assert.Contains(t, out, "13")
}
