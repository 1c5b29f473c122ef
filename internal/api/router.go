package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ganttview/internal/projectservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *projectservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library.
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/*", h.GetProject)
	r.Get("/charts/*", h.GetChart)

	// Uploads.
	r.Post("/uploads", h.Upload)
	r.Get("/uploads/{id}", h.GetUpload)
	r.Get("/uploads/{id}/chart", h.GetUploadChart)

	// Search.
	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
