package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestHasChangedNoEntry(t *testing.T) {
	c := newCatalog(t)
	changed, err := c.HasChanged("/work/a.txt", 10, time.Now())
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestHasChangedSizeMismatch(t *testing.T) {
	c := newCatalog(t)
	now := time.Now()
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/a.txt", FileHash: "h", FileSize: 10, ModifiedTime: now}))

	changed, err := c.HasChanged("/work/a.txt", 20, now)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestHasChangedOlderMtimeMeansChanged(t *testing.T) {
	c := newCatalog(t)
	indexedAt := time.Now()
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/a.txt", FileHash: "h", FileSize: 10, ModifiedTime: indexedAt}))

	earlier := indexedAt.Add(-time.Hour)
	changed, err := c.HasChanged("/work/a.txt", 10, earlier)
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestHasChangedFallsBackToHash(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello"), 0o644))

	info, err := os.Stat(p)
	require.NoError(t, err)

	c := newCatalog(t)
	hash, err := ComputeFileHash(p)
	require.NoError(t, err)
	require.NoError(t, c.Upsert(&Entry{FilePath: p, FileHash: hash, FileSize: info.Size(), ModifiedTime: info.ModTime()}))

	changed, err := c.HasChanged(p, info.Size(), info.ModTime())
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(p, []byte("hello world, changed"), 0o644))
	info2, err := os.Stat(p)
	require.NoError(t, err)

	changed, err = c.HasChanged(p, info2.Size(), info2.ModTime())
	require.NoError(t, err)
	assert.True(t, changed)
}

func TestUpsertAndGetEntry(t *testing.T) {
	c := newCatalog(t)
	now := time.Now().Truncate(time.Second)
	dim := 384
	require.NoError(t, c.Upsert(&Entry{
		FilePath: "/work/a.txt", FileHash: "abc", FileSize: 5, ModifiedTime: now,
		ChunkCount: 2, Kind: "text", Extension: ".txt", EmbeddingDimension: &dim,
	}))

	entry, err := c.GetEntry("/work/a.txt")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "abc", entry.FileHash)
	assert.Equal(t, 2, entry.ChunkCount)
	assert.Equal(t, "text", entry.Kind)
	assert.Equal(t, ".txt", entry.Extension)
	require.NotNil(t, entry.EmbeddingDimension)
	assert.Equal(t, 384, *entry.EmbeddingDimension)
}

func TestUpsertSkippedFileHasNilEmbeddingDimension(t *testing.T) {
	c := newCatalog(t)
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/b.bin", FileHash: "x", FileSize: 1, ModifiedTime: time.Now(), Extension: ".bin"}))

	entry, err := c.GetEntry("/work/b.bin")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Nil(t, entry.EmbeddingDimension)
}

func TestRemoveEntry(t *testing.T) {
	c := newCatalog(t)
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/a.txt", FileHash: "x", FileSize: 1, ModifiedTime: time.Now()}))
	require.NoError(t, c.RemoveEntry("/work/a.txt"))

	entry, err := c.GetEntry("/work/a.txt")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestGetAllEntriesFilteredByExtension(t *testing.T) {
	c := newCatalog(t)
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/a.txt", FileHash: "x", FileSize: 1, ModifiedTime: time.Now(), Extension: ".txt"}))
	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/b.png", FileHash: "y", FileSize: 1, ModifiedTime: time.Now(), Extension: ".png"}))

	txtEntries, err := c.GetAllEntries(".txt")
	require.NoError(t, err)
	assert.Len(t, txtEntries, 1)
	assert.Equal(t, "/work/a.txt", txtEntries[0].FilePath)

	all, err := c.GetAllEntries("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestIndexedFilesCount(t *testing.T) {
	c := newCatalog(t)
	count, err := c.IndexedFilesCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, c.Upsert(&Entry{FilePath: "/work/a.txt", FileHash: "x", FileSize: 1, ModifiedTime: time.Now()}))
	count, err = c.IndexedFilesCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
