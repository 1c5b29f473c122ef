// Package projectservice coordinates the library, the catalog and in-memory
// upload sessions, and turns parsed projects into chart views.
package projectservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/ganttview/internal/apperr"
	"github.com/starford/ganttview/internal/catalog"
	"github.com/starford/ganttview/internal/checksum"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/models"
	"github.com/starford/ganttview/internal/msproject"
	"github.com/starford/ganttview/internal/storage"
)

// Settings tunes parsing, rendering and upload sessions.
type Settings struct {
	Chart       gantt.Options
	DateLayout  string
	Location    *time.Location
	MaxBytes    int64
	MaxSessions int
	SessionTTL  time.Duration
	// Now is the clock used for empty date ranges and session expiry.
	Now func() time.Time
	// OnUpload, when set, is called after each successful upload.
	OnUpload func(UploadResult)
}

// DefaultSettings returns settings matching the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Chart:       gantt.DefaultOptions(),
		DateLayout:  gantt.DefaultDateLayout,
		Location:    time.UTC,
		MaxBytes:    10 << 20,
		MaxSessions: 32,
		SessionTTL:  time.Hour,
		Now:         time.Now,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.DateLayout == "" {
		s.DateLayout = def.DateLayout
	}
	if s.Location == nil {
		s.Location = def.Location
	}
	if s.MaxBytes <= 0 {
		s.MaxBytes = def.MaxBytes
	}
	if s.MaxSessions <= 0 {
		s.MaxSessions = def.MaxSessions
	}
	if s.SessionTTL <= 0 {
		s.SessionTTL = def.SessionTTL
	}
	if s.Now == nil {
		s.Now = def.Now
	}
	return s
}

// ProjectListItem is a lightweight catalog entry.
type ProjectListItem struct {
	Path       string     `json:"path"`
	Name       string     `json:"name"`
	Title      string     `json:"title"`
	Checksum   string     `json:"checksum"`
	TaskCount  int        `json:"task_count"`
	RangeStart *time.Time `json:"range_start,omitempty"`
	RangeEnd   *time.Time `json:"range_end,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TaskView is a visible task with its outline affordances and display dates.
type TaskView struct {
	models.Task
	HasChildren bool   `json:"has_children"`
	Collapsed   bool   `json:"collapsed"`
	StartLabel  string `json:"start_label"`
	FinishLabel string `json:"finish_label"`
}

// ProjectDetail is the full JSON view of a project under one collapse state.
type ProjectDetail struct {
	Path           string      `json:"path,omitempty"`
	SessionID      string      `json:"session_id,omitempty"`
	Name           string      `json:"name"`
	Title          string      `json:"title"`
	StartDate      string      `json:"start_date"`
	FinishDate     string      `json:"finish_date"`
	Checksum       string      `json:"checksum"`
	Range          gantt.Range `json:"range"`
	TaskCount      int         `json:"task_count"`
	Collapsed      []string    `json:"collapsed"`
	Tasks          []TaskView  `json:"tasks"`
	OutlineWarning string      `json:"outline_warning,omitempty"`
}

// ChartRequest selects the collapse state and scale of a chart. Zero values
// fall back to the configured chart settings.
type ChartRequest struct {
	Collapsed    gantt.UIDSet
	PixelsPerDay float64
	Mode         gantt.Mode
	// ToggleURL, when set, makes collapse glyphs in SVG output links.
	ToggleURL func(uid string) string
}

// UploadResult describes a newly created upload session.
type UploadResult struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	Name      string    `json:"name"`
	TaskCount int       `json:"task_count"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service coordinates storage, catalog and session operations.
type Service struct {
	store    storage.Provider
	db       catalog.Catalog
	settings Settings
	sessions *sessionStore
}

// NewService creates a new project service. store and db may be nil when
// only single documents are parsed and rendered.
func NewService(store storage.Provider, db catalog.Catalog, settings Settings) *Service {
	settings = settings.withDefaults()
	return &Service{
		store:    store,
		db:       db,
		settings: settings,
		sessions: newSessionStore(settings.MaxSessions, settings.SessionTTL, settings.Now),
	}
}

// Settings returns the effective settings.
func (s *Service) Settings() Settings { return s.settings }

// Parse parses a project document with the configured timezone.
func (s *Service) Parse(data []byte) (*models.Project, error) {
	return msproject.Parse(data, msproject.WithLocation(s.settings.Location))
}

// ListProjects returns a page of cataloged projects.
func (s *Service) ListProjects(_ context.Context, limit, offset int) ([]ProjectListItem, int, error) {
	rows, total, err := s.db.ListProjects(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	items := make([]ProjectListItem, len(rows))
	for i, r := range rows {
		items[i] = ProjectListItem{
			Path:       r.Path,
			Name:       r.Name,
			Title:      r.Title,
			Checksum:   r.Checksum,
			TaskCount:  r.TaskCount,
			RangeStart: r.RangeStart,
			RangeEnd:   r.RangeEnd,
			UpdatedAt:  r.UpdatedAt,
		}
	}
	return items, total, nil
}

// load reads and parses a library file.
func (s *Service) load(p string) (*models.Project, string, error) {
	if !storage.IsProjectFile(p) {
		return nil, "", fmt.Errorf("%s: %w", p, apperr.ErrUnsupportedFile)
	}
	data, err := s.store.Read(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%s: %w", p, apperr.ErrNotFound)
		}
		return nil, "", err
	}
	proj, err := s.Parse(data)
	if err != nil {
		return nil, "", err
	}
	return proj, checksum.Sum(data), nil
}

// GetProject reads a library file and returns its visible tasks under collapsed.
func (s *Service) GetProject(_ context.Context, p string, collapsed gantt.UIDSet) (*ProjectDetail, error) {
	proj, sum, err := s.load(p)
	if err != nil {
		return nil, err
	}
	d := s.Describe(proj, collapsed)
	d.Path = p
	d.Checksum = sum
	return d, nil
}

// Chart returns the computed view of a library file.
func (s *Service) Chart(_ context.Context, p string, req ChartRequest) (*gantt.View, error) {
	proj, _, err := s.load(p)
	if err != nil {
		return nil, err
	}
	return s.View(proj, req), nil
}

// RenderChart writes the SVG chart of a library file to w.
func (s *Service) RenderChart(ctx context.Context, p string, req ChartRequest, w io.Writer) error {
	v, err := s.Chart(ctx, p, req)
	if err != nil {
		return err
	}
	return s.Render(v, req, w)
}

// View builds the chart view of an already parsed project.
func (s *Service) View(p *models.Project, req ChartRequest) *gantt.View {
	opts := s.settings.Chart
	if req.PixelsPerDay > 0 {
		opts.PixelsPerDay = req.PixelsPerDay
	}
	if req.Mode != "" {
		opts.Mode = req.Mode
	}
	return gantt.NewView(p, req.Collapsed, s.settings.Now(), opts)
}

// Render writes v as SVG.
func (s *Service) Render(v *gantt.View, req ChartRequest, w io.Writer) error {
	return gantt.RenderSVG(w, v.Project, v.Chart, gantt.SVGOptions{
		DateLayout: s.settings.DateLayout,
		Collapsed:  v.Collapsed,
		ToggleURL:  req.ToggleURL,
	})
}

// SearchTasks searches task names and notes across the catalog.
func (s *Service) SearchTasks(_ context.Context, query string, limit int) ([]catalog.TaskHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", apperr.ErrInvalidInput)
	}
	return s.db.SearchTasks(query, limit)
}

// IndexFile parses data and upserts it into the catalog.
// Exported so that sync and watcher callers can reuse it.
func (s *Service) IndexFile(p string, data []byte) error {
	return catalog.IndexFile(s.db, p, data, msproject.WithLocation(s.settings.Location))
}

// Accepts reports whether an upload is treated as a project file: the name
// ends in .xml (any case) or the media type is text/xml or application/xml.
func Accepts(name, mimeType string) bool {
	if strings.EqualFold(path.Ext(name), storage.ProjectExt) {
		return true
	}
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return false
	}
	return mt == "text/xml" || mt == "application/xml"
}

// Upload parses an uploaded document and keeps it in a new session. Nothing
// is written to disk.
func (s *Service) Upload(_ context.Context, name, mimeType string, data []byte) (*UploadResult, error) {
	if !Accepts(name, mimeType) {
		return nil, fmt.Errorf("%q (%s): %w", name, mimeType, apperr.ErrUnsupportedFile)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file: %w", apperr.ErrInvalidInput)
	}
	if int64(len(data)) > s.settings.MaxBytes {
		return nil, fmt.Errorf("file exceeds %d bytes: %w", s.settings.MaxBytes, apperr.ErrInvalidInput)
	}
	proj, err := s.Parse(data)
	if err != nil {
		return nil, err
	}
	sess := s.sessions.put(path.Base(name), checksum.Sum(data), proj)
	res := &UploadResult{
		ID:        sess.ID,
		FileName:  sess.FileName,
		Name:      proj.Name,
		TaskCount: len(proj.Tasks),
		ExpiresAt: sess.ExpiresAt,
	}
	if s.settings.OnUpload != nil {
		s.settings.OnUpload(*res)
	}
	return res, nil
}

// Session returns a live upload session.
func (s *Service) Session(_ context.Context, id string) (*Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("session %q: %w", id, apperr.ErrNotFound)
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, apperr.ErrNotFound)
	}
	return sess, nil
}

// SessionDetail is GetProject for an upload session.
func (s *Service) SessionDetail(ctx context.Context, id string, collapsed gantt.UIDSet) (*ProjectDetail, error) {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	d := s.Describe(sess.Project, collapsed)
	d.SessionID = sess.ID
	d.Checksum = sess.Checksum
	return d, nil
}

// RenderSession writes the SVG chart of an upload session to w.
func (s *Service) RenderSession(ctx context.Context, id string, req ChartRequest, w io.Writer) error {
	sess, err := s.Session(ctx, id)
	if err != nil {
		return err
	}
	return s.Render(s.View(sess.Project, req), req, w)
}

// SessionCount returns the number of live upload sessions.
func (s *Service) SessionCount() int {
	return s.sessions.len()
}

// Describe builds the JSON view of an already parsed project.
func (s *Service) Describe(p *models.Project, collapsed gantt.UIDSet) *ProjectDetail {
	v := gantt.NewView(p, collapsed, s.settings.Now(), s.settings.Chart)
	tasks := make([]TaskView, len(v.Visible))
	for i, t := range v.Visible {
		tasks[i] = TaskView{
			Task:        t,
			HasChildren: v.Collapsible.Has(t.UID),
			Collapsed:   collapsed.Has(t.UID),
			StartLabel:  gantt.FormatDate(t.ParsedStart, s.settings.DateLayout),
			FinishLabel: gantt.FormatDate(t.ParsedFinish, s.settings.DateLayout),
		}
	}
	d := &ProjectDetail{
		Name:       p.Name,
		Title:      p.Title,
		StartDate:  p.StartDate,
		FinishDate: p.FinishDate,
		Range:      v.Range,
		TaskCount:  len(p.Tasks),
		Collapsed:  collapsed.Sorted(),
		Tasks:      tasks,
	}
	if v.OutlineErr != nil {
		d.OutlineWarning = v.OutlineErr.Error()
	}
	return d
}
