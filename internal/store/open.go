package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kiranshivaraju/jobtracker/internal/config"
)

// Open builds the configured job store and returns it with its cleanup func.
// Postgres stores have pending migrations applied before they are returned.
func Open(ctx context.Context, cfg *config.Config) (Store, func(), error) {
	switch cfg.Store.Kind {
	case config.StorePostgres:
		pool, err := Connect(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		slog.Info("database connected")

		if err := RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		slog.Info("database migrations applied")
		return NewPostgresStore(pool), pool.Close, nil
	default:
		fs, err := NewFileStore(cfg.Store.File)
		if err != nil {
			return nil, nil, fmt.Errorf("open job file: %w", err)
		}
		slog.Info("file store ready", "path", cfg.Store.File)
		return fs, func() {}, nil
	}
}
