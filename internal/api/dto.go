package api

import (
	"github.com/starford/ganttview/internal/catalog"
	"github.com/starford/ganttview/internal/projectservice"
)

// ProjectListItem is a lightweight item in a list response (aliased from the domain layer).
type ProjectListItem = projectservice.ProjectListItem

// ProjectDetail is the full project response type (aliased from the domain layer).
type ProjectDetail = projectservice.ProjectDetail

// UploadResponse is returned after a successful upload (aliased from the domain layer).
type UploadResponse = projectservice.UploadResult

// ProjectListResponse wraps paginated project listings.
type ProjectListResponse struct {
	Projects []ProjectListItem `json:"projects" validate:"required"`
	Total    int               `json:"total" example:"3" validate:"required"`
}

// SearchResult is a single task hit in the API response.
type SearchResult struct {
	Path          string `json:"path" example:"plans/warehouse.xml" validate:"required"`
	ProjectName   string `json:"project_name" example:"Warehouse Rollout"`
	UID           string `json:"uid" example:"8" validate:"required"`
	Name          string `json:"name" example:"Scanner network" validate:"required"`
	OutlineNumber string `json:"outline_number" example:"1.2.2"`
	Snippet       string `json:"snippet" example:"...matched text..."`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

func searchResults(hits []catalog.TaskHit) []SearchResult {
	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = SearchResult{
			Path:          h.Path,
			ProjectName:   h.ProjectName,
			UID:           h.UID,
			Name:          h.Name,
			OutlineNumber: h.OutlineNumber,
			Snippet:       h.Snippet,
		}
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
