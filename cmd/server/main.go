package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/talankisai/financehub-fullstack/internal/config"
	"github.com/talankisai/financehub-fullstack/internal/database"
	"github.com/talankisai/financehub-fullstack/internal/hub"
	"github.com/talankisai/financehub-fullstack/internal/seed"
	"github.com/talankisai/financehub-fullstack/internal/server"
	"github.com/talankisai/financehub-fullstack/internal/snapshot"
	"github.com/talankisai/financehub-fullstack/internal/store"
	"github.com/talankisai/financehub-fullstack/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	logger.Info("starting financehub backend",
		"version", version.String(),
		"config", *configPath,
		"storage_driver", cfg.Storage.Driver,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Build the store
	var st store.Store
	switch cfg.Storage.Driver {
	case "memory":
		st = store.NewMemory()
		// The memory driver always starts empty; demo mode needs data.
		if err := seed.Apply(ctx, st, logger); err != nil {
			logger.Error("failed to seed memory store", "error", err)
			os.Exit(1)
		}
	default:
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.InitSchema(ctx, pool); err != nil {
			logger.Error("failed to init schema", "error", err)
			os.Exit(1)
		}
		logger.Info("database connected")

		st = store.NewPostgres(pool, logger)
		if cfg.Storage.Seed {
			if err := seed.ApplyIfEmpty(ctx, st, logger); err != nil {
				logger.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}
	}

	// Push hub
	assembler := snapshot.NewAssembler(st)
	pushHub := hub.New(hub.Config{
		Interval:     cfg.Push.Interval,
		WriteTimeout: cfg.Push.WriteTimeout,
		MaxClients:   cfg.Push.MaxClients,
	}, assembler, logger)

	// Synthetic refresher
	var refresher *seed.Refresher
	if cfg.Refresher.Enabled {
		refresher = seed.NewRefresher(st, cfg.Refresher.Interval, logger)
		refresher.Start(ctx)
	}

	// HTTP server
	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.New(st, pushHub, logger).Handler(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
		cancel()
	}

	// Teardown order: stop all push timers first, then release the listener.
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if refresher != nil {
		refresher.Stop()
	}
	if err := pushHub.Shutdown(shutdownCtx); err != nil {
		logger.Warn("push hub shutdown", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}

	logger.Info("shutdown complete")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
