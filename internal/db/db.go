package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"uex-hauler/internal/logger"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "hauler.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "hauler.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	return OpenAt(dbPath())
}

// OpenAt opens the database at an explicit path (":memory:" works too).
func OpenAt(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	// Try to read current version
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS cargo_items (
				id             TEXT PRIMARY KEY,
				commodity_id   TEXT NOT NULL,
				commodity_name TEXT NOT NULL,
				scu            INTEGER NOT NULL,
				is_hot         INTEGER NOT NULL DEFAULT 0,
				position       INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS terminal_cache (
				id           INTEGER PRIMARY KEY CHECK (id = 1),
				game_version TEXT NOT NULL,
				cached_at    TEXT NOT NULL,
				payload      TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS routes_cache (
				id        INTEGER PRIMARY KEY CHECK (id = 1),
				cached_at TEXT NOT NULL,
				payload   TEXT NOT NULL
			);

			INSERT INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	return nil
}
