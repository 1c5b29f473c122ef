// Package catalog keeps a rebuildable SQLite index of the project library:
// one row per project file and one per task, with optional FTS5 task search.
package catalog

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN keeps the catalog in process memory only.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	path        TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	checksum    TEXT NOT NULL DEFAULT '',
	task_count  INTEGER NOT NULL DEFAULT 0,
	range_start DATETIME,
	range_end   DATETIME,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	path           TEXT NOT NULL REFERENCES projects(path) ON DELETE CASCADE,
	uid            TEXT NOT NULL,
	seq            INTEGER,
	name           TEXT NOT NULL DEFAULT '',
	outline_number TEXT NOT NULL DEFAULT '',
	level          INTEGER NOT NULL DEFAULT 1,
	summary        INTEGER NOT NULL DEFAULT 0,
	milestone      INTEGER NOT NULL DEFAULT 0,
	percent        INTEGER NOT NULL DEFAULT 0,
	start          DATETIME,
	finish         DATETIME,
	notes          TEXT NOT NULL DEFAULT '',
	UNIQUE(path, uid)
);

CREATE INDEX IF NOT EXISTS idx_tasks_path ON tasks(path);
`

// DB wraps a sql.DB with catalog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// MemoryDSN gives a private in-memory catalog.
func Open(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	conn, err := sql.Open("sqlite3", dsn+sep+"_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if dsn == MemoryDSN {
		// Each connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
