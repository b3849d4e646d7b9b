// Package migration applies the embedded schema migrations before any
// generator runs.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/shopseed/shopseed/pkg/database"
	"github.com/shopseed/shopseed/pkg/support/logger"
)

// Migrator applies schema migrations from an fs.FS source.
type Migrator interface {
	Up(ctx context.Context, migrationFS fs.FS, path string) error
	Down(ctx context.Context, migrationFS fs.FS, path string) error
}

const migrationsTable = "schema_migrations"

type migratorImpl struct {
	conn   *database.Connection
	dbType string
}

// NewMigrator creates a Migrator bound to the given connection.
func NewMigrator(conn *database.Connection) Migrator {
	return &migratorImpl{conn: conn, dbType: conn.Type()}
}

func (m *migratorImpl) databaseDriver(sqlDB *sql.DB) (migratedb.Driver, error) {
	switch m.dbType {
	case "postgres":
		return postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	case "mysql":
		return mysql.WithInstance(sqlDB, &mysql.Config{MigrationsTable: migrationsTable})
	case "sqlite":
		return sqlite.WithInstance(sqlDB, &sqlite.Config{MigrationsTable: migrationsTable})
	default:
		return nil, fmt.Errorf("unsupported database type for migration: %s", m.dbType)
	}
}

func (m *migratorImpl) instance(migrationFS fs.FS, path string) (*migrate.Migrate, error) {
	sqlDB, err := m.conn.SQLDB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sourceDriver, err := iofs.New(migrationFS, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs source driver for path %s: %w", path, err)
	}
	dbDriver, err := m.databaseDriver(sqlDB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}
	inst, err := migrate.NewWithInstance("iofs", sourceDriver, m.dbType, dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return inst, nil
}

func (m *migratorImpl) run(migrationFS fs.FS, path string, down bool) error {
	command := "up"
	if down {
		command = "down"
	}
	logger.Infof("Executing migration '%s' (path: %s)", command, path)

	inst, err := m.instance(migrationFS, path)
	if err != nil {
		return err
	}
	defer inst.Close()

	var migrateErr error
	if down {
		migrateErr = inst.Down()
	} else {
		migrateErr = inst.Up()
	}
	if migrateErr != nil && migrateErr != migrate.ErrNoChange {
		return fmt.Errorf("migration '%s' failed (db: %s, path: %s): %w", command, m.dbType, path, migrateErr)
	}

	logger.Infof("Migration '%s' completed successfully.", command)
	return nil
}

func (m *migratorImpl) Up(ctx context.Context, migrationFS fs.FS, path string) error {
	return m.run(migrationFS, path, false)
}

func (m *migratorImpl) Down(ctx context.Context, migrationFS fs.FS, path string) error {
	return m.run(migrationFS, path, true)
}
