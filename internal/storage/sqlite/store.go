// Package sqlite persists visitor preferences in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tokini/internal/storage/sqlite/migrations"
)

// Store is a storage.Preferences backed by SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get implements storage.Preferences.
func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", false, fmt.Errorf("storage is not configured")
	}
	var value string
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`,
		scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements storage.Preferences.
func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("preference key is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO preferences (scope, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		scope, key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
