// Package db stores energy readings in SQLite and answers the dashboard's
// aggregation queries.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"
)

// connectionPragmas apply to every pooled connection. WAL lets the API read
// while an import writes.
var connectionPragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
	"temp_store(MEMORY)",
	"cache_size(-32000)",
}

// DB is the readings store.
type DB struct {
	*sql.DB
	path string
}

// New opens the database at path, creating parent directories, and brings
// the schema up to date.
func New(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB, path: path}
	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// dsn builds a modernc.org/sqlite file URI carrying the pragmas.
func dsn(path string) string {
	s := "file:" + path + "?"
	for i, p := range connectionPragmas {
		if i > 0 {
			s += "&"
		}
		s += "_pragma=" + p
	}
	return s
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// SchemaVersion returns the number of applied migrations.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Close checkpoints the WAL and closes the pool.
func (db *DB) Close() error {
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum rebuilds the database file to reclaim free pages.
func (db *DB) Vacuum() error {
	if _, err := db.ExecContext(context.Background(), "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum: %w", err)
	}
	return nil
}
