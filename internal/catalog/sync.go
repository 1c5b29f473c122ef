package catalog

import (
	"log/slog"
	"time"

	"github.com/starford/ganttview/internal/checksum"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
	"github.com/starford/ganttview/internal/msproject"
	"github.com/starford/ganttview/internal/storage"
)

// Sync walks the library and brings the catalog up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the catalog
//
// Files that fail to parse are logged and left out.
func Sync(db Catalog, store storage.Provider, logger *slog.Logger, opts ...msproject.Option) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := IndexFile(db, m.Path, data, opts...); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteProject(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// IndexFile parses data and upserts the project and its tasks.
func IndexFile(db Catalog, path string, data []byte, opts ...msproject.Option) error {
	p, err := msproject.Parse(data, opts...)
	if err != nil {
		return err
	}
	row, tasks := Rows(path, checksum.Sum(data), p)
	return db.UpsertProject(row, tasks)
}

// Rows converts a parsed project into catalog rows. The stored range is the
// padded chart range and is left empty when no task carries a date.
func Rows(path, sum string, p *models.Project) (ProjectRow, []TaskRow) {
	row := ProjectRow{
		Path:      path,
		Name:      p.Name,
		Title:     p.Title,
		Checksum:  sum,
		TaskCount: len(p.Tasks),
		UpdatedAt: time.Now().UTC(),
	}
	for i := range p.Tasks {
		if p.Tasks[i].HasDates() {
			r := gantt.DateRange(p.Tasks, row.UpdatedAt)
			row.RangeStart, row.RangeEnd = &r.Start, &r.End
			break
		}
	}

	tasks := make([]TaskRow, 0, len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		tr := TaskRow{
			UID:           t.UID,
			Name:          t.Name,
			OutlineNumber: t.OutlineNumber,
			Level:         t.Level(),
			Summary:       t.IsSummary(),
			Milestone:     t.IsMilestone(),
			Percent:       t.Percent(),
			Start:         t.ParsedStart,
			Finish:        t.ParsedFinish,
			Notes:         t.Notes,
		}
		if seq, ok := t.Seq(); ok {
			tr.Seq = &seq
		}
		tasks = append(tasks, tr)
	}
	return row, tasks
}
