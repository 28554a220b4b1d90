package kv

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mesh-intelligence/tally/internal/log"
)

// schema holds the numbered kv table migrations.
//
//go:embed migrations/*.sql
var schema embed.FS

// migrateSchema applies pending kv schema migrations to the database at
// path. The migrator closes the handle it is given, so it gets its own
// rather than the store's.
func migrateSchema(path string, logger *log.Logger) error {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s for migration: %w", path, err)
	}
	defer conn.Close()

	target, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("prepare %s for migration: %w", path, err)
	}
	source, err := iofs.New(schema, "migrations")
	if err != nil {
		return fmt.Errorf("load kv schema: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		return fmt.Errorf("prepare kv schema: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		logger.Error("kv schema migration failed", log.FieldOperation, log.OpMigrate, log.FieldPath, path, log.FieldError, err)
		return fmt.Errorf("migrate kv schema: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("migrated kv schema", log.FieldOperation, log.OpMigrate, log.FieldPath, path, log.FieldVersion, version)
	return nil
}
