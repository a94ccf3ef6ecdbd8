// Command seed loads the sample dataset into the configured PostgreSQL
// database. It creates the schema if needed and writes through the same
// upsert path the server uses, so running it against a populated database
// refreshes market rows without duplicating them.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/talankisai/financehub-fullstack/internal/config"
	"github.com/talankisai/financehub-fullstack/internal/database"
	"github.com/talankisai/financehub-fullstack/internal/seed"
	"github.com/talankisai/financehub-fullstack/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/server.local.yaml", "path to config file")
	ifEmpty := flag.Bool("if-empty", false, "seed only when the database holds no stocks")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Storage.Driver != "postgres" {
		logger.Error("seeding requires the postgres storage driver", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	ctx := context.Background()

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

	st := store.NewPostgres(pool, logger)

	if *ifEmpty {
		err = seed.ApplyIfEmpty(ctx, st, logger)
	} else {
		err = seed.Apply(ctx, st, logger)
	}
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}
