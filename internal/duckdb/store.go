// Package duckdb persists remapping results between runs.
// Results are stored in DuckDB (queryable, keyed by genome build and
// HGVS variant) with an in-process LRU in front for repeated lookups.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/marcboeker/go-duckdb"
)

// recentSize is the number of lookups kept in memory.
const recentSize = 4096

// Store manages a DuckDB connection for caching remapping results.
type Store struct {
	db     *sql.DB
	path   string
	recent *lru.Cache[cacheKey, string]
}

type cacheKey struct {
	build, variant string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	recent, err := lru.New[cacheKey, string](recentSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create lru: %w", err)
	}

	s := &Store{db: db, path: path, recent: recent}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path, "" for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS remap_results (
		build VARCHAR,
		variant VARCHAR,
		genomic VARCHAR,
		chrom VARCHAR,
		coordinate VARCHAR,
		ref VARCHAR,
		alt VARCHAR,
		remapped_at TIMESTAMP DEFAULT current_timestamp,
		PRIMARY KEY (build, variant)
	)`)
	return err
}
