// Package app builds the shared components from process configuration.
package app

import (
	"log/slog"

	"github.com/dgallion1/aitrpg/internal/config"
	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/parser"
	"github.com/dgallion1/aitrpg/internal/paths"
	"github.com/dgallion1/aitrpg/internal/setting"
)

// Paths returns the resolver for cfg.DataDir, or for the platform documents
// directory when no override is set.
func Paths(cfg config.Config) (*paths.Resolver, error) {
	if cfg.DataDir != "" {
		return paths.New(cfg.DataDir), nil
	}
	return paths.FromEnvironment()
}

// Importer applies the import settings from cfg.
func Importer(cfg config.Config, log *slog.Logger) (*importer.Importer, error) {
	opts := []importer.Option{
		importer.WithIgnore(cfg.ImportIgnore...),
		importer.WithMaxDepth(cfg.ImportMaxDepth),
		importer.WithLogger(log),
	}
	if cfg.ImportRich {
		opts = append(opts, importer.WithRichText(parser.Options{PDFFallback: cfg.PDFFallback}))
	}
	return importer.New(opts...)
}

// Lorebooks returns the generator sized by cfg.
func Lorebooks(cfg config.Config) *setting.Generator {
	return setting.NewGenerator(setting.WithChunkSize(cfg.LorebookChunkSize))
}
