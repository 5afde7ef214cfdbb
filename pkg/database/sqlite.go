package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// OpenSQLite opens (creating if needed) a ledger file.
//
// Foreign keys are enforced, every transaction takes the write lock up front
// (BEGIN IMMEDIATE) and the pool holds a single connection, so writers are
// serialized the way row locks serialize them on PostgreSQL.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_txlock", "immediate")
	params.Set("_busy_timeout", "5000")
	params.Set("_loc", "UTC")
	dsn := "file:" + path + "?" + params.Encode()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database %s: %w", path, err)
	}
	return db, nil
}
