// Package store persists saved projects behind a small key-value
// interface with memory, file, SQL and Redis backends.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/plugingenius/plugingenius-cli/pkg/models"
)

// ErrNotFound is returned when a key or record does not exist
var ErrNotFound = errors.New("not found")

// KV is the storage contract every backend satisfies
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Drivers lists the accepted store.driver values
var Drivers = []string{"memory", "file", "sqlite", "postgres", "mysql", "redis"}

// Open creates the backend selected by cfg.Driver
func Open(ctx context.Context, cfg models.StoreSettings) (KV, error) {
	switch strings.ToLower(cfg.Driver) {
	case "memory":
		return NewMemory(), nil
	case "", "file":
		return OpenFile(cfg.Path)
	case "sqlite", "sqlite3":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return OpenSQL(ctx, "sqlite3", dsn)
	case "postgres", "postgresql":
		return OpenSQL(ctx, "postgres", cfg.DSN)
	case "mysql":
		return OpenSQL(ctx, "mysql", cfg.DSN)
	case "redis":
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("unknown store driver %q (must be one of: %s)", cfg.Driver, strings.Join(Drivers, ", "))
	}
}
