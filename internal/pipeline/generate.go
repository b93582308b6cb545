// Package pipeline turns extracted LOVD variant tables into remapped VCF
// files ready for annotation.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/concordance"
	"github.com/macarthurlab/leiden/internal/output"
	"github.com/macarthurlab/leiden/internal/remap"
	"github.com/macarthurlab/leiden/internal/vcf"
)

// Column searches locating the HGVS and protein change columns.
const (
	DNAColumn     = "dna"
	ProteinColumn = "protein"
)

// ErrMissingColumn is returned for tables without an HGVS column.
var ErrMissingColumn = errors.New("missing column")

// InfoTags are the INFO tags written to generated VCF files.
var InfoTags = []vcf.InfoTag{
	{ID: concordance.TagHGVS, Description: "LOVD HGVS notation describing DNA change"},
	{ID: concordance.TagLAAChange, Description: "LOVD amino acid change"},
}

var infoTagIDs = []string{concordance.TagHGVS, concordance.TagLAAChange}

// Remapper remaps HGVS variants in order. *remap.Remapper implements it.
type Remapper interface {
	RemapAll(ctx context.Context, variants []string) []remap.Result
}

// Table is an extracted variant table for one gene.
type Table struct {
	Gene    string
	Headers []string
	Rows    [][]string
}

// LoadTable reads a table written by extraction. The gene is taken from
// the file name and the first row holds the headers.
func LoadTable(path string) (Table, error) {
	rows, err := output.ReadTableFile(path)
	if err != nil {
		return Table{}, err
	}
	t := Table{Gene: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}
	if len(rows) > 0 {
		t.Headers, t.Rows = rows[0], rows[1:]
	}
	return t, nil
}

// Result is the VCF conversion of one table.
type Result struct {
	Variants []vcf.Variant
	Errors   []output.RemapError
	Summary  output.RemapSummary
}

// Generator converts tables to VCF rows.
type Generator struct {
	remapper Remapper
	logger   *zap.Logger
}

// NewGenerator creates a generator that remaps through rm.
func NewGenerator(rm Remapper) *Generator {
	return &Generator{remapper: rm, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (g *Generator) SetLogger(l *zap.Logger) {
	g.logger = l
}

// Generate remaps every row of t. Rows that cannot be remapped become
// error records instead of VCF rows; row order is kept.
func (g *Generator) Generate(ctx context.Context, t Table) (Result, error) {
	hgvsIdx := output.FindColumn(t.Headers, DNAColumn)
	if hgvsIdx < 0 {
		return Result{}, fmt.Errorf("%w: %s: no %q column in %v", ErrMissingColumn, t.Gene, DNAColumn, t.Headers)
	}
	proteinIdx := output.FindColumn(t.Headers, ProteinColumn)

	res := Result{Summary: output.RemapSummary{Gene: t.Gene, Variants: len(t.Rows)}}

	type entry struct {
		variant string
		protein string
	}
	var entries []entry
	for _, row := range t.Rows {
		variant := variantOf(cell(row, hgvsIdx))
		if variant == "" {
			res.Errors = append(res.Errors, output.RemapError{
				Gene: t.Gene,
				Err:  fmt.Errorf("%w: no HGVS notation in row", remap.ErrRemapping),
			})
			continue
		}
		entries = append(entries, entry{variant: variant, protein: cell(row, proteinIdx)})
	}

	inputs := make([]string, len(entries))
	for i, e := range entries {
		inputs[i] = e.variant
	}
	results := g.remapper.RemapAll(ctx, inputs)

	for i, r := range results {
		e := entries[i]
		if !r.OK() {
			res.Errors = append(res.Errors, output.RemapError{Gene: t.Gene, Variant: e.variant, Err: r.Err})
			continue
		}
		if !r.Variant.Parsed() {
			res.Errors = append(res.Errors, output.RemapError{
				Gene:    t.Gene,
				Variant: e.variant,
				Err:     fmt.Errorf("%w: unparseable genomic notation %s", remap.ErrRemapping, r.Genomic),
			})
			continue
		}

		info := vcf.FormatInfo(infoTagIDs, map[string]string{
			concordance.TagHGVS:      e.variant,
			concordance.TagLAAChange: e.protein,
		})
		v := vcf.FromGenomic(r.Variant, "", info)
		res.Variants = append(res.Variants, v)

		res.Summary.Remapped++
		if r.Cached {
			res.Summary.Cached++
		}
		if v.NeedsReview() {
			res.Summary.NeedsReview++
		}
	}
	res.Summary.Failed = len(res.Errors)

	g.logger.Info("generated VCF rows",
		zap.String("gene", t.Gene),
		zap.Int("rows", len(t.Rows)),
		zap.Int("remapped", res.Summary.Remapped),
		zap.Int("failed", res.Summary.Failed))
	return res, nil
}

// cell returns row[i], or "" when the column is absent.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// variantOf picks the HGVS description from a scraped cell, which may hold
// several comma-separated link values.
func variantOf(c string) string {
	for _, part := range strings.Split(c, ",") {
		if part = strings.TrimSpace(part); strings.Contains(part, ":") && !strings.Contains(part, "://") {
			return part
		}
	}
	return strings.TrimSpace(c)
}

// WriteVCF writes variants as a VCF declaring InfoTags.
func WriteVCF(w io.Writer, variants []vcf.Variant) error {
	vw := vcf.NewWriter(w, InfoTags)
	if err := vw.WriteHeader(); err != nil {
		return err
	}
	for i := range variants {
		if err := vw.Write(&variants[i]); err != nil {
			return err
		}
	}
	return vw.Flush()
}

// WriteVCFFile writes variants to path, replacing any existing file.
func WriteVCFFile(path string, variants []vcf.Variant) error {
	var buf bytes.Buffer
	if err := WriteVCF(&buf, variants); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
