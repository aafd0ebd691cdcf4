// Package config loads filex's configuration from defaults, an optional
// per-repository YAML file, and environment variables, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the optional YAML config file at a work tree root.
const FileName = ".filex.yaml"

// Config is filex's complete runtime configuration.
type Config struct {
	Version    int              `yaml:"version" json:"version"`
	Chunking   ChunkingConfig   `yaml:"chunking" json:"chunking"`
	Embeddings EmbeddingsConfig `yaml:"embeddings" json:"embeddings"`
	Indexing   IndexingConfig   `yaml:"indexing" json:"indexing"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging"`
}

// ChunkingConfig configures how extracted text is split into chunks.
type ChunkingConfig struct {
	// Strategy selects the chunker: "fixed" or "sentence".
	Strategy string `yaml:"strategy" json:"strategy"`

	FixedSize    int `yaml:"fixed_size" json:"fixed_size"`
	FixedOverlap int `yaml:"fixed_overlap" json:"fixed_overlap"`

	SentenceTarget int `yaml:"sentence_target" json:"sentence_target"`
	SentenceMax    int `yaml:"sentence_max" json:"sentence_max"`
}

// EmbeddingsConfig configures the embedding capabilities.
type EmbeddingsConfig struct {
	// CacheSize bounds the LRU query-embedding cache wrapping the text embedder.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
	// BatchSize is validated to be positive; indexing does not read it
	// (TextHandler embeds all of a file's chunks in one EmbedBatch call).
	BatchSize int `yaml:"batch_size" json:"batch_size"`
	// MaxConsecutiveFailures trips the text embedder's circuit breaker after
	// this many consecutive failed calls.
	MaxConsecutiveFailures int `yaml:"max_consecutive_failures" json:"max_consecutive_failures"`
}

// IndexingConfig configures directory walking and the background worker pool.
type IndexingConfig struct {
	// DefaultExtensions holds an extension list (e.g. [".txt", ".png"]) read
	// from YAML or the environment; directory indexing does not consult it.
	// The CLI indexes all files unless --extensions is given, and the HTTP
	// surface applies its own fixed list when a request omits one.
	DefaultExtensions []string `yaml:"default_extensions" json:"default_extensions"`
	// WorkerPoolSize bounds how many indexing jobs the controller runs at once.
	WorkerPoolSize int `yaml:"worker_pool_size" json:"worker_pool_size"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	// Path is a log file path; empty means the CLI logs to the default
	// ~/.filex/logs/filex.log.
	Path string `yaml:"path" json:"path"`
	// MaxSizeMB rotates the log file once it exceeds this size.
	MaxSizeMB int `yaml:"max_size_mb" json:"max_size_mb"`
}

// NewConfig returns a Config populated with filex's defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Chunking: ChunkingConfig{
			Strategy:       "fixed",
			FixedSize:      1000,
			FixedOverlap:   100,
			SentenceTarget: 500,
			SentenceMax:    1000,
		},
		Embeddings: EmbeddingsConfig{
			CacheSize:              1000,
			BatchSize:              32,
			MaxConsecutiveFailures: 5,
		},
		Indexing: IndexingConfig{
			DefaultExtensions: nil,
			WorkerPoolSize:    runtime.NumCPU(),
		},
		Server: ServerConfig{
			Port: 8787,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Path:      "",
			MaxSizeMB: 10,
		},
	}
}

// Load builds a Config for the repository rooted at dir: defaults, then
// dir/.filex.yaml if present, then FILEX_* environment variable overrides.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(dir string) error {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return c.loadYAML(path)
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith overlays non-zero values from other onto c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Chunking.Strategy != "" {
		c.Chunking.Strategy = other.Chunking.Strategy
	}
	if other.Chunking.FixedSize != 0 {
		c.Chunking.FixedSize = other.Chunking.FixedSize
	}
	if other.Chunking.FixedOverlap != 0 {
		c.Chunking.FixedOverlap = other.Chunking.FixedOverlap
	}
	if other.Chunking.SentenceTarget != 0 {
		c.Chunking.SentenceTarget = other.Chunking.SentenceTarget
	}
	if other.Chunking.SentenceMax != 0 {
		c.Chunking.SentenceMax = other.Chunking.SentenceMax
	}

	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}
	if other.Embeddings.BatchSize != 0 {
		c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.Embeddings.MaxConsecutiveFailures != 0 {
		c.Embeddings.MaxConsecutiveFailures = other.Embeddings.MaxConsecutiveFailures
	}

	if len(other.Indexing.DefaultExtensions) > 0 {
		c.Indexing.DefaultExtensions = other.Indexing.DefaultExtensions
	}
	if other.Indexing.WorkerPoolSize != 0 {
		c.Indexing.WorkerPoolSize = other.Indexing.WorkerPoolSize
	}

	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.Path != "" {
		c.Logging.Path = other.Logging.Path
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
}

// applyEnvOverrides applies FILEX_* environment variable overrides, the
// highest-precedence configuration layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FILEX_CHUNKING_STRATEGY"); v != "" {
		c.Chunking.Strategy = v
	}
	if v := os.Getenv("FILEX_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Chunking.FixedSize = n
		}
	}
	if v := os.Getenv("FILEX_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Chunking.FixedOverlap = n
		}
	}
	if v := os.Getenv("FILEX_EMBEDDINGS_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embeddings.CacheSize = n
		}
	}
	if v := os.Getenv("FILEX_EMBEDDINGS_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embeddings.BatchSize = n
		}
	}
	if v := os.Getenv("FILEX_EMBEDDINGS_MAX_CONSECUTIVE_FAILURES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embeddings.MaxConsecutiveFailures = n
		}
	}
	if v := os.Getenv("FILEX_DEFAULT_EXTENSIONS"); v != "" {
		c.Indexing.DefaultExtensions = strings.Split(v, ",")
	}
	if v := os.Getenv("FILEX_WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Indexing.WorkerPoolSize = n
		}
	}
	if v := os.Getenv("FILEX_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("FILEX_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("FILEX_LOG_PATH"); v != "" {
		c.Logging.Path = v
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	strategy := strings.ToLower(c.Chunking.Strategy)
	if strategy != "fixed" && strategy != "sentence" {
		return fmt.Errorf("chunking.strategy must be 'fixed' or 'sentence', got %q", c.Chunking.Strategy)
	}

	if c.Chunking.FixedSize <= 0 {
		return fmt.Errorf("chunking.fixed_size must be positive, got %d", c.Chunking.FixedSize)
	}
	if c.Chunking.FixedOverlap < 0 || c.Chunking.FixedOverlap >= c.Chunking.FixedSize {
		return fmt.Errorf("chunking.fixed_overlap must be in [0, fixed_size), got %d", c.Chunking.FixedOverlap)
	}
	if c.Chunking.SentenceTarget <= 0 {
		return fmt.Errorf("chunking.sentence_target must be positive, got %d", c.Chunking.SentenceTarget)
	}
	if c.Chunking.SentenceMax < c.Chunking.SentenceTarget {
		return fmt.Errorf("chunking.sentence_max must be >= sentence_target, got %d < %d", c.Chunking.SentenceMax, c.Chunking.SentenceTarget)
	}

	if c.Embeddings.CacheSize <= 0 {
		return fmt.Errorf("embeddings.cache_size must be positive, got %d", c.Embeddings.CacheSize)
	}
	if c.Embeddings.BatchSize <= 0 {
		return fmt.Errorf("embeddings.batch_size must be positive, got %d", c.Embeddings.BatchSize)
	}
	if c.Embeddings.MaxConsecutiveFailures <= 0 {
		return fmt.Errorf("embeddings.max_consecutive_failures must be positive, got %d", c.Embeddings.MaxConsecutiveFailures)
	}

	if c.Indexing.WorkerPoolSize <= 0 {
		return fmt.Errorf("indexing.worker_pool_size must be positive, got %d", c.Indexing.WorkerPoolSize)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level)
	}

	return nil
}

// WriteYAML writes the configuration to path as YAML.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
