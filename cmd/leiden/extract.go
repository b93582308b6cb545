package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/lovd"
	"github.com/macarthurlab/leiden/internal/output"
	"github.com/macarthurlab/leiden/internal/pipeline"
)

func newExtractCmd() *cobra.Command {
	var (
		siteURL  string
		all      bool
		writeVCF bool
		noCache  bool
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "extract [gene]...",
		Short: "Extract variant tables from an LOVD installation",
		Long: `Extract downloads the variant listing of each gene and writes it as a
tab-delimited <gene>.txt. With --vcf the HGVS descriptions are remapped to
genomic coordinates and written as <gene>.vcf as well.`,
		Example: `  leiden extract --url http://www.dmd.nl/nmdb2/ ACTA1 NEB
  leiden extract --url https://databases.lovd.nl/shared/genes --all --vcf -o lovd/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if siteURL == "" {
				return usageError{"--url is required"}
			}
			if all == (len(args) > 0) {
				return usageError{"name genes or pass --all, not both"}
			}
			if err := ensureDir(outDir); err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openLOVD(cmd, siteURL)
			if err != nil {
				return err
			}

			genes := args
			if all {
				if genes, err = db.GeneList(ctx); err != nil {
					return fmt.Errorf("listing genes: %w", err)
				}
			}
			logger.Info("extracting",
				zap.String("url", db.BaseURL()),
				zap.Stringer("version", db.Version()),
				zap.Int("genes", len(genes)))

			var gen *pipeline.Generator
			if writeVCF {
				session, err := newRemapSession(noCache)
				if err != nil {
					return err
				}
				defer session.Close()
				gen = pipeline.NewGenerator(session.remapper)
				gen.SetLogger(logger)
			}

			var (
				errs      []output.RemapError
				summaries []output.RemapSummary
				failed    int
			)
			for _, gene := range genes {
				t, err := extractGene(cmd, db, gene, outDir)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return ctxErr
					}
					failed++
					logger.Warn("gene not extracted", zap.String("gene", gene), zap.Error(err))
					if errors.Is(err, lovd.ErrNoEntries) {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: no variants listed\n", gene)
					}
					continue
				}
				if gen == nil {
					continue
				}

				res, err := gen.Generate(ctx, t)
				if err != nil {
					logger.Warn("gene not remapped", zap.String("gene", gene), zap.Error(err))
					continue
				}
				if err := pipeline.WriteVCFFile(genePath(outDir, gene, ".vcf"), res.Variants); err != nil {
					return err
				}
				errs = append(errs, res.Errors...)
				summaries = append(summaries, res.Summary)
			}

			if gen != nil {
				if err := output.WriteRemapErrorsFile(outDir, errs); err != nil {
					return err
				}
				output.WriteRemapSummary(cmd.OutOrStdout(), summaries)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d / %d genes extracted\n", len(genes)-failed, len(genes))
			return nil
		},
	}

	cmd.Flags().StringVar(&siteURL, "url", "", "LOVD installation URL")
	cmd.Flags().BoolVar(&all, "all", false, "Extract every gene the installation lists")
	cmd.Flags().BoolVar(&writeVCF, "vcf", false, "Also remap each table and write <gene>.vcf")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or write the remap cache")
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "Directory for extracted files")
	return cmd
}

// extractGene downloads the variant table of gene and writes it to
// <outDir>/<gene>.txt.
func extractGene(cmd *cobra.Command, db *lovd.Database, gene, outDir string) (pipeline.Table, error) {
	ctx := cmd.Context()
	q, err := db.Query(ctx, gene)
	if err != nil {
		return pipeline.Table{}, err
	}
	rows, err := db.VariantTable(ctx, q)
	if err != nil {
		return pipeline.Table{}, err
	}

	t := pipeline.Table{Gene: gene, Headers: db.TableHeaders(q), Rows: rows}
	if err := output.WriteTableFile(genePath(outDir, gene, ".txt"), t.Headers, t.Rows); err != nil {
		return pipeline.Table{}, err
	}
	logger.Info("extracted",
		zap.String("gene", gene),
		zap.String("refseq", q.RefSeqID()),
		zap.Int("rows", len(rows)))
	return t, nil
}

// genePath returns the file for gene in dir. Path separators in the
// symbol are replaced.
func genePath(dir, gene, ext string) string {
	return filepath.Join(dir, strings.ReplaceAll(gene, "/", "_")+ext)
}
