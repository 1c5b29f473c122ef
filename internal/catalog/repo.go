package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ganttview/internal/apperr"
)

// ProjectRow represents a row in the projects table.
type ProjectRow struct {
	Path       string
	Name       string
	Title      string
	Checksum   string
	TaskCount  int
	RangeStart *time.Time
	RangeEnd   *time.Time
	UpdatedAt  time.Time
}

// TaskRow represents a row in the tasks table.
type TaskRow struct {
	UID           string
	Seq           *int
	Name          string
	OutlineNumber string
	Level         int
	Summary       bool
	Milestone     bool
	Percent       int
	Start         *time.Time
	Finish        *time.Time
	Notes         string
}

// TaskHit is one task search result.
type TaskHit struct {
	Path          string `json:"path"`
	ProjectName   string `json:"project_name"`
	UID           string `json:"uid"`
	Name          string `json:"name"`
	OutlineNumber string `json:"outline_number"`
	Snippet       string `json:"snippet"`
}

// UpsertProject replaces a project row and all of its task rows within a
// transaction.
func (db *DB) UpsertProject(p ProjectRow, tasks []TaskRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err = tx.Exec(`
		INSERT INTO projects (path, name, title, checksum, task_count, range_start, range_end, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			name        = excluded.name,
			title       = excluded.title,
			checksum    = excluded.checksum,
			task_count  = excluded.task_count,
			range_start = excluded.range_start,
			range_end   = excluded.range_end,
			updated_at  = excluded.updated_at
	`, p.Path, p.Name, p.Title, p.Checksum, len(tasks), nullTime(p.RangeStart), nullTime(p.RangeEnd), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("catalog: upsert project: %w", err)
	}

	if err := ftsDelete(tx, p.Path); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE path = ?`, p.Path); err != nil {
		return fmt.Errorf("catalog: clear tasks: %w", err)
	}
	if len(tasks) > 0 {
		stmt, err := tx.Prepare(`
			INSERT OR IGNORE INTO tasks
				(path, uid, seq, name, outline_number, level, summary, milestone, percent, start, finish, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("catalog: prepare task insert: %w", err)
		}
		defer stmt.Close()
		for _, t := range tasks {
			var seq sql.NullInt64
			if t.Seq != nil {
				seq = sql.NullInt64{Int64: int64(*t.Seq), Valid: true}
			}
			if _, err := stmt.Exec(p.Path, t.UID, seq, t.Name, t.OutlineNumber, t.Level,
				t.Summary, t.Milestone, t.Percent, nullTime(t.Start), nullTime(t.Finish), t.Notes); err != nil {
				return fmt.Errorf("catalog: insert task %s: %w", t.UID, err)
			}
			if err := ftsUpsert(tx, p.Path, t.UID, t.Name, t.Notes); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// DeleteProject removes a project and its tasks.
func (db *DB) DeleteProject(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, path); err != nil {
		return err
	}
	_, _ = tx.Exec(`DELETE FROM tasks WHERE path = ?`, path)
	_, _ = tx.Exec(`DELETE FROM projects WHERE path = ?`, path)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a project, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM projects WHERE path = ?`, path).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("catalog: get checksum: %w", err)
	}
	return cs, nil
}

const projectColumns = `path, name, title, checksum, task_count, range_start, range_end, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (ProjectRow, error) {
	var p ProjectRow
	var start, end sql.NullTime
	if err := s.Scan(&p.Path, &p.Name, &p.Title, &p.Checksum, &p.TaskCount, &start, &end, &p.UpdatedAt); err != nil {
		return ProjectRow{}, err
	}
	p.RangeStart = timePtr(start)
	p.RangeEnd = timePtr(end)
	return p, nil
}

// GetProject returns one catalog row. A missing path yields apperr.ErrNotFound.
func (db *DB) GetProject(path string) (*ProjectRow, error) {
	p, err := scanProject(db.conn.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE path = ?`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("catalog: project %s: %w", path, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get project: %w", err)
	}
	return &p, nil
}

// ListProjects returns a page of projects ordered by path and the total count.
// A non-positive limit returns every row.
func (db *DB) ListProjects(limit, offset int) ([]ProjectRow, int, error) {
	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM projects`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count projects: %w", err)
	}
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.conn.Query(`SELECT `+projectColumns+` FROM projects ORDER BY path LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list projects: %w", err)
	}
	defer rows.Close()

	out := []ProjectRow{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// AllChecksums returns path → checksum for every indexed project.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("catalog: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func scanHits(rows *sql.Rows) ([]TaskHit, error) {
	defer rows.Close()
	out := []TaskHit{}
	for rows.Next() {
		var h TaskHit
		if err := rows.Scan(&h.Path, &h.ProjectName, &h.UID, &h.Name, &h.OutlineNumber, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
