package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestStoreAndLookup(t *testing.T) {
	s := openInMemory(t)
	c := s.RemapCache("hg19")
	ctx := context.Background()

	_, ok, err := c.Lookup(ctx, "NM_001100.3:c.24C>A")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.229568839G>T"))

	got, ok, err := c.Lookup(ctx, "NM_001100.3:c.24C>A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NC_000001.10:g.229568839G>T", got)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStoreReplaces(t *testing.T) {
	s := openInMemory(t)
	c := s.RemapCache("hg19")
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.1A>G"))
	require.NoError(t, c.Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.229568839G>T"))

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	s.recent.Purge()
	got, ok, err := c.Lookup(ctx, "NM_001100.3:c.24C>A")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "NC_000001.10:g.229568839G>T", got)
}

func TestBuildsAreSeparate(t *testing.T) {
	s := openInMemory(t)
	ctx := context.Background()

	require.NoError(t, s.RemapCache("hg19").Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.229568839G>T"))

	_, ok, err := s.RemapCache("hg38").Lookup(ctx, "NM_001100.3:c.24C>A")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupFromDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "remap.duckdb")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RemapCache("hg19").Store(ctx, "NM_000059.3:c.68-7T>A", "NC_000013.10:g.32893207T>A"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, ok, err := s.RemapCache("hg19").Lookup(ctx, "NM_000059.3:c.68-7T>A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "NC_000013.10:g.32893207T>A", got)
	assert.Equal(t, 1, s.recent.Len())
}

func TestClear(t *testing.T) {
	s := openInMemory(t)
	c := s.RemapCache("hg19")
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.229568839G>T"))
	require.NoError(t, c.Clear(ctx))

	_, ok, err := c.Lookup(ctx, "NM_001100.3:c.24C>A")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchByChromosome(t *testing.T) {
	s := openInMemory(t)
	c := s.RemapCache("hg19")
	ctx := context.Background()

	require.NoError(t, c.Store(ctx, "NM_001100.3:c.24C>A", "NC_000001.10:g.229568839G>T"))
	require.NoError(t, c.Store(ctx, "NM_001100.3:c.12del", "NC_000001.10:g.229568851del"))
	require.NoError(t, c.Store(ctx, "NM_000059.3:c.68-7T>A", "NC_000013.10:g.32893207T>A"))

	found, err := c.SearchByChromosome(ctx, "1")
	require.NoError(t, err)
	require.Len(t, found, 2)

	snv := found["NM_001100.3:c.24C>A"]
	assert.Equal(t, "229568839", snv.Coordinate)
	assert.Equal(t, "G", snv.Ref)
	assert.Equal(t, "T", snv.Alt)

	del := found["NM_001100.3:c.12del"]
	assert.Equal(t, "229568851", del.Coordinate)
	assert.Empty(t, del.Ref)

	none, err := c.SearchByChromosome(ctx, "X")
	require.NoError(t, err)
	assert.Empty(t, none)
}
