package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvDataDir, EnvFixedTime, EnvSeed, EnvEmbeddings, EnvTestMode} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.ChunkOverlap)
	assert.True(t, cfg.EmbeddingsEnabled)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Nil(t, cfg.FixedTime)
	assert.False(t, cfg.TestMode)
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().ChunkSize, cfg.ChunkSize)
}

func TestLoad_TOMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "loom.toml")
	content := "chunk_size = 400\nchunk_overlap = 50\nembeddings = false\nseed = 7\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 400, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.False(t, cfg.EmbeddingsEnabled)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDataDir, "/tmp/loom-test")
	t.Setenv(EnvFixedTime, "2024-05-01T12:00:00Z")
	t.Setenv(EnvSeed, "42")
	t.Setenv(EnvEmbeddings, "off")
	t.Setenv(EnvTestMode, "on")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/loom-test", cfg.DataDir)
	require.NotNil(t, cfg.FixedTime)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), cfg.FixedTime.UTC())
	assert.Equal(t, int64(42), cfg.Seed)
	assert.False(t, cfg.EmbeddingsEnabled)
	assert.True(t, cfg.TestMode)
}

func TestLoad_BadFixedTime(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvFixedTime, "yesterday")

	_, err := Load("")
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "on": true, "yes": true,
		"false": false, "0": false, "off": false, "nonsense": false,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseBool(input), "input %q", input)
	}
}
