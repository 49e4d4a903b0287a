package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"AITRPG_DATA_DIR", "AITRPG_PORT", "AITRPG_BIND", "AITRPG_API_KEY",
		"AITRPG_CORS_ORIGINS", "AITRPG_LOG_LEVEL", "AITRPG_IMPORT_RICH",
		"AITRPG_IMPORT_IGNORE", "AITRPG_IMPORT_MAX_DEPTH", "AITRPG_LOREBOOK_CHUNK_SIZE",
	} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Empty(t, cfg.DataDir)
	assert.Equal(t, "127.0.0.1:8765", cfg.Addr())
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.ImportRich)
	assert.Nil(t, cfg.ImportIgnore)
	assert.Equal(t, 0, cfg.ImportMaxDepth)
	assert.Equal(t, 120, cfg.LorebookChunkSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.NotEmpty(t, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AITRPG_DATA_DIR", "/tmp/aitrpg")
	t.Setenv("AITRPG_PORT", "9000")
	t.Setenv("AITRPG_LOG_LEVEL", "debug")
	t.Setenv("AITRPG_IMPORT_RICH", "true")
	t.Setenv("AITRPG_IMPORT_IGNORE", ".git, *.tmp ,,")
	t.Setenv("AITRPG_IMPORT_MAX_DEPTH", "-3")
	t.Setenv("AITRPG_LOREBOOK_CHUNK_SIZE", "nope")
	t.Setenv("AITRPG_CORS_ORIGINS", "http://localhost:5173")

	cfg := Load()
	assert.Equal(t, "/tmp/aitrpg", cfg.DataDir)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.ImportRich)
	assert.Equal(t, []string{".git", "*.tmp"}, cfg.ImportIgnore)
	assert.Equal(t, 0, cfg.ImportMaxDepth)
	assert.Equal(t, 120, cfg.LorebookChunkSize)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: "99999", Bind: "127.0.0.1"}
	assert.Error(t, cfg.Validate())

	cfg = Config{Port: "8765", Bind: ""}
	assert.Error(t, cfg.Validate())

	cfg = Config{Port: "8765", Bind: "localhost"}
	assert.NoError(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("AITRPG_TEST_FROM_FILE=yes\nAITRPG_TEST_PRESET=file\n"), 0o644))
	t.Setenv("AITRPG_TEST_PRESET", "env")
	t.Cleanup(func() { os.Unsetenv("AITRPG_TEST_FROM_FILE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "yes", os.Getenv("AITRPG_TEST_FROM_FILE"))
	assert.Equal(t, "env", os.Getenv("AITRPG_TEST_PRESET"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
