package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// OpenDB opens (or creates) the ink SQLite database in the given data directory.
func OpenDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ink.db")

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps transactions and pragmas on the same handle.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying sql.DB for direct queries.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file location.
func (db *DB) Path() string {
	return db.path
}

// migrate creates the schema if it doesn't exist.
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		url        TEXT    NOT NULL,
		title      TEXT    NOT NULL DEFAULT '',
		visited_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tabs (
		tab_id      INTEGER PRIMARY KEY,
		ordinal     INTEGER NOT NULL,
		title       TEXT    NOT NULL DEFAULT '',
		current_pos INTEGER NOT NULL,
		max_pos     INTEGER NOT NULL,
		active      INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tab_entries (
		tab_id   INTEGER NOT NULL REFERENCES tabs(tab_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url      TEXT    NOT NULL,
		PRIMARY KEY (tab_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_history_visited_at ON history(visited_at DESC);
	CREATE INDEX IF NOT EXISTS idx_history_url ON history(url);
	`

	_, err := db.conn.Exec(schema)
	return err
}
