//go:build !sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE over the tasks table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _, _, _, _ string) error { return nil }

func ftsDelete(_ *sql.Tx, _ string) error { return nil }

// SearchTasks performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) SearchTasks(query string, limit int) ([]TaskHit, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT t.path, p.name, t.uid, t.name, t.outline_number, substr(t.notes, 1, 200)
		FROM tasks t
		JOIN projects p ON p.path = t.path
		WHERE t.name LIKE ? OR t.notes LIKE ?
		ORDER BY t.path, t.seq
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanHits(rows)
}
