package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/duckdb"
	"github.com/macarthurlab/leiden/internal/output"
	"github.com/macarthurlab/leiden/internal/pipeline"
	"github.com/macarthurlab/leiden/internal/remap"
)

// remapSession is a remapper and the cache store backing it.
type remapSession struct {
	remapper *remap.Remapper
	store    *duckdb.Store      // nil without cache
	cache    *duckdb.RemapCache // nil without cache
}

// newRemapSession builds a remapper from the current configuration. The
// DuckDB cache is opened unless noCache is set.
func newRemapSession(noCache bool) (*remapSession, error) {
	cfg := remapConfig()
	client := remap.NewClient(cfg)
	client.SetLogger(logger)

	s := &remapSession{}
	var cache remap.Cache
	if !noCache {
		path := viper.GetString(keyCachePath)
		store, err := duckdb.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening remap cache: %w", err)
		}
		s.store = store
		s.cache = store.RemapCache(cfg.Build)
		cache = s.cache
		logger.Debug("remap cache opened", zap.String("path", path), zap.String("build", cfg.Build))
	}

	s.remapper = remap.NewRemapper(client, cache, cfg.BatchSize)
	s.remapper.SetLogger(logger)
	return s, nil
}

func (s *remapSession) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

func newRemapCmd() *cobra.Command {
	var (
		outDir     string
		noCache    bool
		clearCache bool
	)

	cmd := &cobra.Command{
		Use:   "remap <table.txt>...",
		Short: "Remap extracted LOVD tables to VCF files",
		Long: `Remap reads variant tables written by extract, converts their HGVS
descriptions to genomic coordinates and writes one <gene>.vcf per table.
Variants that cannot be remapped are listed in remapping_errors.log.`,
		Example: `  leiden remap ACTA1.txt DMD.txt -o vcfs/
  leiden remap --clear-cache tables/*.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noCache && clearCache {
				return usageError{"--clear-cache cannot be used with --no-cache"}
			}
			if err := ensureDir(outDir); err != nil {
				return err
			}

			session, err := newRemapSession(noCache)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx := cmd.Context()
			if clearCache {
				if err := session.cache.Clear(ctx); err != nil {
					return err
				}
				logger.Info("remap cache cleared")
			}

			gen := pipeline.NewGenerator(session.remapper)
			gen.SetLogger(logger)

			var (
				errs      []output.RemapError
				summaries []output.RemapSummary
			)
			for _, path := range args {
				t, err := pipeline.LoadTable(path)
				if err != nil {
					logger.Warn("skipping table", zap.String("file", path), zap.Error(err))
					continue
				}
				res, err := gen.Generate(ctx, t)
				if err != nil {
					logger.Warn("skipping table", zap.String("file", path), zap.Error(err))
					continue
				}
				if err := pipeline.WriteVCFFile(genePath(outDir, t.Gene, ".vcf"), res.Variants); err != nil {
					return err
				}
				errs = append(errs, res.Errors...)
				summaries = append(summaries, res.Summary)
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			if err := output.WriteRemapErrorsFile(outDir, errs); err != nil {
				return err
			}
			output.WriteRemapSummary(cmd.OutOrStdout(), summaries)

			if session.cache != nil {
				if n, err := session.cache.Count(ctx); err == nil {
					logger.Info("remap cache", zap.Int("entries", n))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "Directory for VCF files and remapping_errors.log")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Do not read or write the remap cache")
	cmd.Flags().BoolVar(&clearCache, "clear-cache", false, "Empty the remap cache for the configured build first")
	return cmd
}
