package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// RemapCache stores remapping results for one genome build.
// It satisfies remap.Cache.
type RemapCache struct {
	store *Store
	build string
}

// RemapCache returns the cache view for build (e.g. "hg19").
func (s *Store) RemapCache(build string) *RemapCache {
	return &RemapCache{store: s, build: build}
}

// Lookup returns the cached genomic notation for variant.
func (c *RemapCache) Lookup(ctx context.Context, variant string) (string, bool, error) {
	key := cacheKey{c.build, variant}
	if genomic, ok := c.store.recent.Get(key); ok {
		return genomic, true, nil
	}

	var genomic string
	err := c.store.db.QueryRowContext(ctx,
		`SELECT genomic FROM remap_results WHERE build=? AND variant=?`,
		c.build, variant).Scan(&genomic)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query remap result: %w", err)
	}

	c.store.recent.Add(key, genomic)
	return genomic, true, nil
}

// Store records the genomic notation for variant, replacing any earlier result.
func (c *RemapCache) Store(ctx context.Context, variant, genomic string) error {
	g := hgvs.ParseGenomic(genomic)
	_, err := c.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO remap_results
		(build, variant, genomic, chrom, coordinate, ref, alt, remapped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, current_timestamp)`,
		c.build, variant, genomic, g.Chrom, g.Coordinate, g.Ref, g.Alt)
	if err != nil {
		return fmt.Errorf("store remap result: %w", err)
	}

	c.store.recent.Add(cacheKey{c.build, variant}, genomic)
	return nil
}

// Count returns the number of cached results for the build.
func (c *RemapCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx,
		`SELECT count(*) FROM remap_results WHERE build=?`, c.build).Scan(&n); err != nil {
		return 0, fmt.Errorf("count remap results: %w", err)
	}
	return n, nil
}

// Clear removes all cached results for the build.
func (c *RemapCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx,
		`DELETE FROM remap_results WHERE build=?`, c.build); err != nil {
		return fmt.Errorf("clear remap results: %w", err)
	}
	c.store.recent.Purge()
	return nil
}

// SearchByChromosome returns the cached variants remapped onto chrom, keyed
// by HGVS input.
func (c *RemapCache) SearchByChromosome(ctx context.Context, chrom string) (map[string]hgvs.GenomicVariant, error) {
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT variant, chrom, coordinate, ref, alt FROM remap_results
		WHERE build=? AND chrom=?`, c.build, chrom)
	if err != nil {
		return nil, fmt.Errorf("query by chromosome: %w", err)
	}
	defer rows.Close()

	out := make(map[string]hgvs.GenomicVariant)
	for rows.Next() {
		var variant string
		var g hgvs.GenomicVariant
		if err := rows.Scan(&variant, &g.Chrom, &g.Coordinate, &g.Ref, &g.Alt); err != nil {
			return nil, fmt.Errorf("scan remap result: %w", err)
		}
		out[variant] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate remap results: %w", err)
	}
	return out, nil
}
