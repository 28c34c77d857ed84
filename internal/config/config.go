// Package config holds the explicit runtime configuration for Loom.
//
// Configuration is a value passed to constructors, never ambient process
// state. It is assembled from production defaults, an optional TOML file
// and environment overrides (a .env file is honoured when present).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Defaults used when no file or environment override is present.
const (
	DefaultChunkSize     = 1000
	DefaultChunkOverlap  = 200
	DefaultEmbeddingDims = 64
)

// Environment variable names.
const (
	EnvDataDir    = "LOOM_DATA_DIR"
	EnvFixedTime  = "LOOM_FIXED_TIME"
	EnvSeed       = "LOOM_SEED"
	EnvEmbeddings = "LOOM_EMBEDDINGS"
	EnvTestMode   = "LOOM_TEST_MODE"
)

// Config is the full runtime configuration.
type Config struct {
	// DataDir is the root directory for the object store, metadata
	// database and vector index. Empty means ~/.loom.
	DataDir string `toml:"data_dir"`

	// ChunkSize is the chunk length in bytes.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks in bytes.
	ChunkOverlap int `toml:"chunk_overlap"`

	// EmbeddingsEnabled toggles the vector index. Disabling it removes a
	// scoring signal and nothing else.
	EmbeddingsEnabled bool `toml:"embeddings"`

	// EmbeddingDims is the local embedder vector size.
	EmbeddingDims int `toml:"embedding_dims"`

	// Seed feeds the deterministic embedder. Identical seeds yield
	// identical rankings.
	Seed int64 `toml:"seed"`

	// FixedTime, when set, pins Clock().Now() to a fixed instant.
	// Used for deterministic tests; nil in production.
	FixedTime *time.Time `toml:"-"`

	// TestMode only affects non-functional behaviour (log verbosity).
	TestMode bool `toml:"test_mode"`
}

// Default returns the production defaults.
func Default() Config {
	return Config{
		ChunkSize:         DefaultChunkSize,
		ChunkOverlap:      DefaultChunkOverlap,
		EmbeddingsEnabled: true,
		EmbeddingDims:     DefaultEmbeddingDims,
	}
}

// Load assembles the configuration: defaults, then the TOML file at
// filePath (skipped when empty or absent), then environment overrides.
func Load(filePath string) (Config, error) {
	cfg := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		switch {
		case os.IsNotExist(err):
			// No file is a valid state; defaults apply.
		case err != nil:
			return Config{}, fmt.Errorf("reading config file: %w", err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", filePath, err)
			}
		}
	}

	return cfg.applyEnv()
}

// applyEnv overlays LOOM_* environment variables, loading a .env file
// first when one exists in the working directory.
func (c Config) applyEnv() (Config, error) {
	_ = godotenv.Load()

	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}

	if v := os.Getenv(EnvFixedTime); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvFixedTime, err)
		}
		c.FixedTime = &t
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}

	if v := os.Getenv(EnvEmbeddings); v != "" {
		c.EmbeddingsEnabled = parseBool(v)
	}

	if v := os.Getenv(EnvTestMode); v != "" {
		c.TestMode = parseBool(v)
	}

	return c, nil
}

// parseBool accepts the usual spellings; anything unrecognised is false.
func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		switch v {
		case "on", "yes":
			return true
		}
		return false
	}
	return b
}
