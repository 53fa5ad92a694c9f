package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/drunksters/gamehub/internal/config"
	"github.com/drunksters/gamehub/internal/game"
	"github.com/drunksters/gamehub/internal/media"
	"github.com/drunksters/gamehub/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Error reporting ---
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     cfg.SentryDSN,
			Release: server.Version,
		}); err != nil {
			return fmt.Errorf("initializing sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		logger.Info("sentry enabled")
	}

	// --- Game state ---
	store, err := game.Seeded()
	if err != nil {
		return fmt.Errorf("seeding game state: %w", err)
	}
	verifier, err := game.NewVerifier(cfg.AuthMode)
	if err != nil {
		return fmt.Errorf("configuring auth: %w", err)
	}
	logger.Info("game state seeded", "auth_mode", cfg.AuthMode)

	// --- Media store ---
	mediaStore, err := media.NewStore(afero.NewOsFs(), cfg.MediaDir)
	if err != nil {
		return fmt.Errorf("opening media store: %w", err)
	}
	logger.Info("media store ready", "dir", cfg.MediaDir)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:     store,
		Verifier:  verifier,
		Media:     mediaStore,
		Hub:       server.NewHub(),
		PublicURL: cfg.PublicURL,
		SPADir:    cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
