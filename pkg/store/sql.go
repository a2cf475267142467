package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv (
    kv_key VARCHAR(255) NOT NULL PRIMARY KEY,
    kv_value TEXT NOT NULL
)`

// SQL keeps keys in a two column table. The same statements run on
// SQLite, PostgreSQL and MySQL; placeholders are rebound per driver.
type SQL struct {
	db *sqlx.DB
}

// OpenSQL connects with driver and migrates the kv table
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s store requires a dsn", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	s := NewSQL(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an existing connection without migrating
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// Migrate creates the kv table when it is missing
func (s *SQL) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createKVTable); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT kv_value FROM kv WHERE kv_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, nil
}

// Set replaces the value in one transaction
func (s *SQL) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM kv WHERE kv_key = ?"), key); err != nil {
		return fmt.Errorf("failed to clear key %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("INSERT INTO kv (kv_key, kv_value) VALUES (?, ?)"), key, value); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM kv WHERE kv_key = ?"), key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}
