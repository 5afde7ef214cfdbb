package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/SscSPs/budget_ledger/migrations"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// RunPostgresMigrations applies the embedded PostgreSQL migrations.
// db must be opened with the pgx stdlib driver ("pgx").
func RunPostgresMigrations(db *sql.DB, logger *slog.Logger) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create postgres driver instance for migrations: %w", err)
	}
	return runMigrations(migrations.Postgres, "postgres", "postgres", driver, logger)
}

// RunSQLiteMigrations applies the embedded SQLite migrations.
func RunSQLiteMigrations(db *sql.DB, logger *slog.Logger) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create sqlite3 driver instance for migrations: %w", err)
	}
	return runMigrations(migrations.SQLite, "sqlite", "sqlite3", driver, logger)
}

func runMigrations(fsys fs.FS, dir, dbName string, driver database.Driver, logger *slog.Logger) error {
	source, err := iofs.New(fsys, dir)
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dbName, driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	// Apply all available "up" migrations
	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.", slog.String("database", dbName))
	} else {
		logger.Info("Database migrations applied successfully.", slog.String("database", dbName))
	}
	return nil
}
