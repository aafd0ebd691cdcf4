package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOnMissingFileReturnsEmpty(t *testing.T) {
	reg, err := Open(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	folders, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestRegisterThenListReturnsPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(target, 0o755))

	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	folders, err := reg.Register(target)
	require.NoError(t, err)
	assert.Contains(t, folders, target)

	listed, err := reg.List()
	require.NoError(t, err)
	assert.Equal(t, folders, listed)
}

func TestRegisterIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(target, 0o755))

	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	_, err = reg.Register(target)
	require.NoError(t, err)
	folders, err := reg.Register(target)
	require.NoError(t, err)
	assert.Len(t, folders, 1)
}

func TestRegisterMissingPathFails(t *testing.T) {
	dir := t.TempDir()
	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	_, err = reg.Register(filepath.Join(dir, "nonexistent"))
	assert.Error(t, err)
}

func TestRegisterFileNotDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	_, err = reg.Register(file)
	assert.Error(t, err)
}

func TestUnregisterRemovesPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "project")
	require.NoError(t, os.MkdirAll(target, 0o755))

	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	_, err = reg.Register(target)
	require.NoError(t, err)

	require.NoError(t, reg.Unregister(target))

	folders, err := reg.List()
	require.NoError(t, err)
	assert.Empty(t, folders)
}

func TestUnregisterUnknownPathIsNoop(t *testing.T) {
	dir := t.TempDir()
	reg, err := Open(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.NoError(t, reg.Unregister(filepath.Join(dir, "never-registered")))
}
