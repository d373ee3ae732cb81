package repository

import (
	"context"
	"fmt"
	"log/slog"

	"emi-calculator/config"
)

// Backend is an opened store plus whatever must run at shutdown.
type Backend struct {
	Store   KeyValueStore
	Cleanup func() error
}

// Open creates the key-value store selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.StoreBackend {
	case config.BackendRedis:
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("initialize redis store: %w", err)
		}
		logger.Info("Initialized redis store", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return &Backend{Store: store, Cleanup: store.Close}, nil

	case config.BackendSQLite:
		store, err := NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite store", "db_path", cfg.SQLiteDBPath)
		return &Backend{Store: store, Cleanup: store.Close}, nil

	case config.BackendMemory, "":
		logger.Info("Initialized memory store")
		return &Backend{Store: NewMemoryStore(), Cleanup: func() error { return nil }}, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}
