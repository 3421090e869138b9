package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

// applyMigrations brings the schema up to the newest embedded version.
// The migrate instance is not closed: its sqlite driver would close sqlDB.
func applyMigrations(sqlDB *sql.DB, migrationFS fs.FS) error {
	m, err := newMigrate(sqlDB, migrationFS)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	log.WithFields(log.Fields{
		"version": version,
		"dirty":   dirty,
	}).Debug("Preference schema ready")
	return nil
}

func newMigrate(sqlDB *sql.DB, migrationFS fs.FS) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFS, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return m, nil
}
