package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simplici0/scrapvalue/internal/catalog"
	"github.com/Simplici0/scrapvalue/internal/config"
	"github.com/Simplici0/scrapvalue/internal/logging"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.IsDev())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, stats, err := catalog.Open(ctx, cfg.PriceDBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.PriceDBPath).Msg("failed to load price catalog")
	}
	logger.Info().
		Str("path", cfg.PriceDBPath).
		Int("metals", len(table.Metals())).
		Int("seeded", stats.Inserts).
		Msg("price catalog loaded")

	srv, err := newServer(table, serverOptions{
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		Highlight:      cfg.Highlight,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		StartedAt:      time.Now(),
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build server")
	}

	go srv.sessions.runSweeper(ctx, sweepInterval, logger)
	go srv.limiter.runSweeper(ctx, sweepInterval, cfg.SessionTTL)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
		logger.Info().Msg("server stopped")
	}
}
