package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/platform/postgres"
)

// setupAppDatabase opens the connection pool and verifies connectivity.
func setupAppDatabase(ctx context.Context, cfg *config.Config, log *slog.Logger) (*sql.DB, error) {
	db, err := postgres.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	return db, nil
}

// handleMigrations runs a single goose command against the configured
// database and closes the connection afterwards.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, log *slog.Logger) error {
	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("failed to close database after migrations", slog.String("error", cerr.Error()))
		}
	}()

	log.Info("executing migrations", slog.String("command", command))
	if err := postgres.Migrate(ctx, db, command, log); err != nil {
		return fmt.Errorf("migration %q failed: %w", command, err)
	}
	log.Info("migrations finished", slog.String("command", command))
	return nil
}
