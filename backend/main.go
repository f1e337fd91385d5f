package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ngovuminh2005/gomoku-project/engine"
)

const shutdownTimeout = 5 * time.Second

func main() {
	logger := newConsoleLogger(os.Stderr)
	if level, err := zerolog.ParseLevel(getenv("GOMOKU_LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	mode := "bot"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if err := run(mode, logger); err != nil {
		logger.Fatal().Err(err).Str("mode", mode).Msg("backend stopped")
	}
}

func run(mode string, logger zerolog.Logger) error {
	tier, cfg, err := loadConfig(getenv("GOMOKU_CONFIG", ""))
	if err != nil {
		return err
	}
	switch mode {
	case "bot":
		search, err := engine.NewSearchContext(cfg, logger.With().Str("tier", tier).Logger())
		if err != nil {
			return err
		}
		return runBot(context.Background(), os.Stdin, os.Stdout, search)
	case "serve":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, getenv("GOMOKU_ADDR", ":8080"), NewConfigStore(tier, cfg), logger)
	default:
		return errors.Errorf("unknown mode %q, want bot or serve", mode)
	}
}

// serve runs the session server until ctx is cancelled or the listener
// fails, then shuts down gracefully.
func serve(ctx context.Context, addr string, configs *ConfigStore, logger zerolog.Logger) error {
	hub := NewHub()
	sessions := NewSessionManager(configs, hub, os.Stderr)
	srv := newServer(sessions, hub, configs, logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info().Str("addr", addr).Str("tier", configs.Tier()).Msg("backend listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("graceful shutdown failed")
			if closeErr := httpServer.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
				return errors.Wrap(closeErr, "close")
			}
		}
		return nil
	})
	return g.Wait()
}
