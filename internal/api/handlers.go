package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ganttview/internal/apperr"
	"github.com/starford/ganttview/internal/checksum"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/projectservice"
)

const svgContentType = "image/svg+xml; charset=utf-8"

// Handler holds API route handlers.
type Handler struct {
	svc *projectservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *projectservice.Service) *Handler {
	return &Handler{svc: svc}
}

// projectPath extracts the library path from the URL wildcard.
// Supports encoded slashes from OpenAPI clients (e.g. plans%2Fwarehouse.xml).
func projectPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// chartRequest reads collapsed, ppd and mode from the query string.
func chartRequest(r *http.Request) (projectservice.ChartRequest, error) {
	q := r.URL.Query()
	req := projectservice.ChartRequest{Collapsed: gantt.ParseUIDSet(q.Get("collapsed"))}

	if v := q.Get("ppd"); v != "" {
		ppd, err := strconv.ParseFloat(v, 64)
		if err != nil || ppd <= 0 {
			return req, fmt.Errorf("ppd must be a positive number: %w", apperr.ErrInvalidInput)
		}
		req.PixelsPerDay = ppd
	}
	switch mode := gantt.Mode(q.Get("mode")); mode {
	case "", gantt.ModeDay, gantt.ModeWeek:
		req.Mode = mode
	default:
		return req, fmt.Errorf("mode must be day or week: %w", apperr.ErrInvalidInput)
	}

	req.ToggleURL = func(uid string) string {
		next := url.Values{}
		for k, v := range q {
			next[k] = v
		}
		if s := req.Collapsed.Toggle(uid).String(); s != "" {
			next.Set("collapsed", s)
		} else {
			next.Del("collapsed")
		}
		return "?" + next.Encode()
	}
	return req, nil
}

// writeSVG sends a rendered chart, answering 304 when the client already
// holds the same bytes.
func writeSVG(w http.ResponseWriter, r *http.Request, buf *bytes.Buffer) {
	etag := checksum.ETag(buf.Bytes())
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && checksum.MatchesETag(match, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", svgContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("svg write failed", slog.String("error", err.Error()))
	}
}

// ListProjects handles GET /api/projects.
//
//	@Summary		List cataloged projects with optional pagination
//	@Tags			projects
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset"
//	@Success		200		{object}	ProjectListResponse
//	@Security		BearerAuth
//	@Router			/projects [get]
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListProjects(r.Context(), limit, offset)
	if err != nil {
		writeError(w, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectListResponse{
		Projects: nonNil(items),
		Total:    total,
	})
}

// GetProject handles GET /api/projects/*.
//
//	@Summary		Get a project with the tasks visible under a collapse state
//	@Tags			projects
//	@Produce		json
//	@Param			path		path		string	true	"Project path"
//	@Param			collapsed	query		string	false	"Comma-separated collapsed task UIDs"
//	@Success		200			{object}	ProjectDetail
//	@Failure		404			{object}	errResponse
//	@Failure		422			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/projects/{path} [get]
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	path := projectPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	collapsed := gantt.ParseUIDSet(r.URL.Query().Get("collapsed"))
	detail, err := h.svc.GetProject(r.Context(), path, collapsed)
	if err != nil {
		writeError(w, "get project", err, slog.String("path", path))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetChart handles GET /api/charts/*.
//
//	@Summary		Render the Gantt chart of a project as SVG
//	@Tags			charts
//	@Produce		image/svg+xml
//	@Param			path		path	string	true	"Project path"
//	@Param			collapsed	query	string	false	"Comma-separated collapsed task UIDs"
//	@Param			ppd			query	number	false	"Pixels per day"
//	@Param			mode		query	string	false	"Header scale"	Enums(day, week)
//	@Success		200
//	@Failure		400			{object}	errResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/charts/{path} [get]
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	path := projectPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	req, err := chartRequest(r)
	if err != nil {
		writeError(w, "chart", err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.RenderChart(r.Context(), path, req, &buf); err != nil {
		writeError(w, "render chart", err, slog.String("path", path))
		return
	}
	writeSVG(w, r, &buf)
}

// Upload handles POST /api/uploads.
//
//	@Summary		Upload an MS Project XML file for viewing
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Project XML file"
//	@Success		201		{object}	UploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		415		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/uploads [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.svc.Settings().MaxBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	res, err := h.svc.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeError(w, "upload", err, slog.String("file", header.Filename))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetUpload handles GET /api/uploads/{id}.
//
//	@Summary		Get an uploaded project under a collapse state
//	@Tags			uploads
//	@Produce		json
//	@Param			id			path		string	true	"Upload session ID"
//	@Param			collapsed	query		string	false	"Comma-separated collapsed task UIDs"
//	@Success		200			{object}	ProjectDetail
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/uploads/{id} [get]
func (h *Handler) GetUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	collapsed := gantt.ParseUIDSet(r.URL.Query().Get("collapsed"))
	detail, err := h.svc.SessionDetail(r.Context(), id, collapsed)
	if err != nil {
		writeError(w, "get upload", err, slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetUploadChart handles GET /api/uploads/{id}/chart.
//
//	@Summary		Render the Gantt chart of an uploaded project as SVG
//	@Tags			uploads
//	@Produce		image/svg+xml
//	@Param			id			path	string	true	"Upload session ID"
//	@Param			collapsed	query	string	false	"Comma-separated collapsed task UIDs"
//	@Param			ppd			query	number	false	"Pixels per day"
//	@Param			mode		query	string	false	"Header scale"	Enums(day, week)
//	@Success		200
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/uploads/{id}/chart [get]
func (h *Handler) GetUploadChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := chartRequest(r)
	if err != nil {
		writeError(w, "chart", err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.RenderSession(r.Context(), id, req, &buf); err != nil {
		writeError(w, "render upload", err, slog.String("id", id))
		return
	}
	writeSVG(w, r, &buf)
}

// Search handles GET /api/search.
//
//	@Summary		Search task names and notes across the catalog
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.svc.SearchTasks(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err, slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: searchResults(hits)})
}
