//go:build sqlite_fts5

package catalog

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS tasks_fts USING fts5(
			path UNINDEXED,
			uid UNINDEXED,
			name,
			notes,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, path, uid, name, notes string) error {
	_, err := tx.Exec(`INSERT INTO tasks_fts (path, uid, name, notes) VALUES (?, ?, ?, ?)`,
		path, uid, name, notes)
	if err != nil {
		return fmt.Errorf("catalog: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) error {
	if _, err := tx.Exec(`DELETE FROM tasks_fts WHERE path = ?`, path); err != nil {
		return fmt.Errorf("catalog: delete fts: %w", err)
	}
	return nil
}

// SearchTasks performs an FTS5 search over task names and notes.
func (db *DB) SearchTasks(query string, limit int) ([]TaskHit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.path,
		       p.name,
		       f.uid,
		       t.name,
		       t.outline_number,
		       snippet(tasks_fts, -1, '<b>', '</b>', '...', 16)
		FROM tasks_fts f
		JOIN tasks t ON t.path = f.path AND t.uid = f.uid
		JOIN projects p ON p.path = f.path
		WHERE tasks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: search: %w", err)
	}
	return scanHits(rows)
}
