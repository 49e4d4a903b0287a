package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/aitrpg/internal/paths"
)

// DefaultConfig is returned by ConfigStore.Load when no config file exists.
const DefaultConfig = `{
  "version": "0.1.0",
  "ai": {
    "provider": "deepseek",
    "apiKey": "",
    "apiBaseUrl": "https://api.deepseek.com/v1",
    "modelName": "deepseek-chat",
    "temperature": 0.7,
    "maxTokens": 2000
  },
  "game": {
    "dmStyle": "humanistic",
    "autoSave": true,
    "autoSaveInterval": 30,
    "language": "zh-CN"
  },
  "ui": {
    "theme": "dark",
    "fontSize": 14,
    "animationEnabled": true
  }
}`

// ConfigSource tells where a resolved configuration came from.
type ConfigSource string

const (
	SourceFile    ConfigSource = "file"
	SourceDefault ConfigSource = "default"
)

// ConfigResult is the outcome of resolving the configuration document.
type ConfigResult struct {
	Content string
	Source  ConfigSource
}

// ConfigStore reads and writes the singleton configuration document.
type ConfigStore struct {
	path string
	log  *slog.Logger
}

func NewConfigStore(r *paths.Resolver, log *slog.Logger) *ConfigStore {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ConfigStore{path: r.ConfigPath(), log: log}
}

// Path returns the config file location.
func (s *ConfigStore) Path() string { return s.path }

// Resolve reads the config file, falling back to DefaultConfig when it does
// not exist. Contents are returned verbatim and never parsed.
func (s *ConfigStore) Resolve() (ConfigResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ConfigResult{Content: DefaultConfig, Source: SourceDefault}, nil
		}
		return ConfigResult{}, fmt.Errorf("read config: %w", err)
	}
	return ConfigResult{Content: string(data), Source: SourceFile}, nil
}

// Load returns the configuration text.
func (s *ConfigStore) Load() (string, error) {
	res, err := s.Resolve()
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

// Save overwrites the config file with content.
func (s *ConfigStore) Save(content string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	s.log.Info("config saved", "bytes", len(content))
	return nil
}
