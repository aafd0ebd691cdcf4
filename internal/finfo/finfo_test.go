package finfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPathTextFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(p, []byte("hello world"), 0o644))

	m, err := FromPath(p)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", m.FileName)
	assert.Equal(t, ".txt", m.FileExtension)
	assert.True(t, m.IsTextType)
	assert.False(t, m.IsImageType)
	assert.True(t, m.IsEligible())
	assert.EqualValues(t, 11, m.FileSizeBytes)
}

func TestFromPathImageFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "photo.PNG")
	require.NoError(t, os.WriteFile(p, []byte{0, 1, 2}, 0o644))

	m, err := FromPath(p)
	require.NoError(t, err)
	assert.Equal(t, ".png", m.FileExtension)
	assert.True(t, m.IsImageType)
	assert.False(t, m.IsTextType)
}

func TestFromPathUnsupportedExtensionNotEligible(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "archive.zip")
	require.NoError(t, os.WriteFile(p, []byte{0}, 0o644))

	m, err := FromPath(p)
	require.NoError(t, err)
	assert.False(t, m.IsEligible())
}

func TestFromPathMissingFile(t *testing.T) {
	_, err := FromPath(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFileSizeConversions(t *testing.T) {
	m := &FileMetadata{FileSizeBytes: 2048}
	assert.Equal(t, 2.0, m.FileSizeKB())
	assert.InDelta(t, 0.001953125, m.FileSizeMB(), 0.0001)
}
