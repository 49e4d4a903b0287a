package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/aitrpg/internal/api"
	"github.com/dgallion1/aitrpg/internal/app"
	"github.com/dgallion1/aitrpg/internal/config"
	"github.com/dgallion1/aitrpg/internal/logsink"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run serves until ctx is done, then shuts down within cfg.ShutdownTimeout.
func run(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	resolver, err := app.Paths(cfg)
	if err != nil {
		return err
	}

	// A sink that cannot open its file still logs to the console.
	sink, sinkErr := logsink.Open(resolver.LogsDir())
	defer sink.Close()
	log := slog.New(logsink.NewHandler(sink, cfg.LogLevel))
	if sinkErr != nil {
		log.Warn("file logging disabled", "error", sinkErr)
	}

	im, err := app.Importer(cfg, log)
	if err != nil {
		return fmt.Errorf("invalid import settings: %w", err)
	}

	srv := api.NewServer(api.Deps{
		Paths:     resolver,
		Importer:  im,
		Lorebooks: app.Lorebooks(cfg),
		Sink:      sink,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting aitrpg", "addr", cfg.Addr(), "data_dir", resolver.Root(), "log_file", sink.Path())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	<-done
	return nil
}
