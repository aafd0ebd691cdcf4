package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaultsAreValid(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "fixed", cfg.Chunking.Strategy)
	assert.Equal(t, 8787, cfg.Server.Port)
}

func TestLoadWithNoConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, NewConfig().Chunking.FixedSize, cfg.Chunking.FixedSize)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "chunking:\n  strategy: sentence\n  sentence_target: 300\nserver:\n  port: 9999\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sentence", cfg.Chunking.Strategy)
	assert.Equal(t, 300, cfg.Chunking.SentenceTarget)
	assert.Equal(t, 9999, cfg.Server.Port)
	// Unset fields keep their defaults.
	assert.Equal(t, 1000, cfg.Chunking.FixedSize)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FILEX_PORT", "1234")
	t.Setenv("FILEX_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("chunking: [this is not a map"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidateRejectsBadChunking(t *testing.T) {
	cfg := NewConfig()
	cfg.Chunking.Strategy = "bogus"
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.Chunking.FixedOverlap = cfg.Chunking.FixedSize
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.Chunking.SentenceMax = cfg.Chunking.SentenceTarget - 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := NewConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := NewConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestWriteYAMLRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg := NewConfig()
	cfg.Server.Port = 4321
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4321, loaded.Server.Port)
}
