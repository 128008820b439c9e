package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/lineup-service/internal/app/lineups"
	"github.com/preston-bernstein/lineup-service/internal/config"
	"github.com/preston-bernstein/lineup-service/internal/logging"
	"github.com/preston-bernstein/lineup-service/internal/store"
)

// backend is a lineup store the server can health-check and close.
type backend interface {
	lineups.Store
	Ping(ctx context.Context) error
	Close() error
}

var openSQLite = func(ctx context.Context, path string) (backend, error) {
	return store.OpenSQLite(ctx, path)
}

// buildStore opens the configured store. Unknown drivers fall back to memory.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (backend, error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		st, err := openSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		logging.Info(logger, "store opened", "driver", config.StoreSQLite, "path", cfg.Store.SQLitePath)
		return st, nil
	case config.StoreMemory, "":
	default:
		logging.Warn(logger, "unknown store driver, using memory", "driver", cfg.Store.Driver)
	}
	logging.Info(logger, "store opened", "driver", config.StoreMemory)
	return store.NewMemoryStore(), nil
}
