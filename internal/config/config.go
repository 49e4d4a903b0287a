package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

type Config struct {
	// Storage root. Empty means <documents>/AI-TRPG.
	DataDir string

	// HTTP command server
	Port            string
	Bind            string
	APIKey          string
	CORSOrigins     []string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration

	LogLevel slog.Level

	// Directory import
	ImportRich     bool
	ImportIgnore   []string
	ImportMaxDepth int
	PDFFallback    bool

	// Lorebook generation
	LorebookChunkSize int
}

func Load() Config {
	cfg := Config{
		DataDir: os.Getenv("AITRPG_DATA_DIR"),

		Port:            envOr("AITRPG_PORT", "8765"),
		Bind:            envOr("AITRPG_BIND", "127.0.0.1"),
		APIKey:          os.Getenv("AITRPG_API_KEY"),
		CORSOrigins:     envList("AITRPG_CORS_ORIGINS", []string{"tauri://localhost", "http://localhost:1420"}),
		MaxBodyBytes:    envInt64("AITRPG_MAX_BODY_BYTES", 52428800), // 50MB
		ShutdownTimeout: envDuration("AITRPG_SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: envLevel("AITRPG_LOG_LEVEL", slog.LevelInfo),

		ImportRich:     envBool("AITRPG_IMPORT_RICH", false),
		ImportIgnore:   envList("AITRPG_IMPORT_IGNORE", nil),
		ImportMaxDepth: envInt("AITRPG_IMPORT_MAX_DEPTH", 0),
		PDFFallback:    envBool("AITRPG_PDF_FALLBACK_PDFTOTEXT", false),

		LorebookChunkSize: envInt("AITRPG_LOREBOOK_CHUNK_SIZE", 120),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 52428800
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.ImportMaxDepth < 0 {
		cfg.ImportMaxDepth = 0
	}
	if cfg.LorebookChunkSize <= 0 {
		cfg.LorebookChunkSize = 120
	}

	return cfg
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Bind, validation.Required, is.Host),
	)
}

// Addr is the listen address of the command server.
func (c Config) Addr() string {
	return c.Bind + ":" + c.Port
}

// LoadDotEnv copies variables from a .env file into the process environment.
// Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			return l
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping blank items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
