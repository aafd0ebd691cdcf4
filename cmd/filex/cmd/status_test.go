package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmdReportsIndexedCounts(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello world"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("not yet indexed"), 0o644))

	indexCmd := newIndexCmd()
	indexCmd.SetOut(&bytes.Buffer{})
	indexCmd.SetArgs([]string{filepath.Join(dir, "notes.txt")})
	require.NoError(t, indexCmd.Execute())

	statusCmd := newStatusCmd()
	buf := &bytes.Buffer{}
	statusCmd.SetOut(buf)
	statusCmd.SetArgs([]string{})

	require.NoError(t, statusCmd.Execute())
	assert.Contains(t, buf.String(), "1/2 eligible files indexed")
}

func TestStatusCmdFailsWithoutRepository(t *testing.T) {
	chdirTemp(t)

	statusCmd := newStatusCmd()
	statusCmd.SetOut(&bytes.Buffer{})
	statusCmd.SetArgs([]string{})

	assert.Error(t, statusCmd.Execute())
}

func TestStatusCmdListFiltersByExtension(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello world"), 0o644))

	indexCmd := newIndexCmd()
	indexCmd.SetOut(&bytes.Buffer{})
	indexCmd.SetArgs([]string{dir})
	require.NoError(t, indexCmd.Execute())

	statusCmd := newStatusCmd()
	buf := &bytes.Buffer{}
	statusCmd.SetOut(buf)
	statusCmd.SetArgs([]string{"--list", "--extension", ".txt"})

	require.NoError(t, statusCmd.Execute())
	assert.Contains(t, buf.String(), "notes.txt")

	emptyStatusCmd := newStatusCmd()
	emptyBuf := &bytes.Buffer{}
	emptyStatusCmd.SetOut(emptyBuf)
	emptyStatusCmd.SetArgs([]string{"--list", "--extension", ".png"})

	require.NoError(t, emptyStatusCmd.Execute())
	assert.Contains(t, emptyBuf.String(), "No indexed files")
}
