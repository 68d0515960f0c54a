// Package storage holds the sqlite-backed generation cache. The cache only
// short-circuits regeneration of unchanged components; removing it changes
// performance, never results.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS gen_cache (
	component_path TEXT PRIMARY KEY,
	source_hash    TEXT NOT NULL,
	options_hash   TEXT NOT NULL,
	generated_at   TEXT NOT NULL
);
`

// DB is a handle on the cache database.
type DB struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the cache database at path.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	logger.Debug("cache db opened", "path", path)
	return &DB{conn: conn, path: path, logger: logger}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}
