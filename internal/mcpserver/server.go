// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes ganttview tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ganttview/internal/apperr"
	"github.com/starford/ganttview/internal/gantt"
	"github.com/starford/ganttview/internal/projectservice"
)

// FormatURI identifies the format contract resource.
const FormatURI = "ganttview://format"

// Server wraps the MCP server with ganttview tools.
type Server struct {
	mcp *server.MCPServer
	svc *projectservice.Service
}

// New creates a new MCP server with all ganttview tools registered.
func New(svc *projectservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"ganttview",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List the MS Project XML files in the library with their task counts and date spans."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of projects (default 50)")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Read a project from the library: name, padded date range and the tasks visible "+
			"when the given summary tasks are collapsed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the project file (e.g. plans/warehouse.xml)")),
		mcp.WithString("collapsed", mcp.Description("Comma-separated UIDs of collapsed summary tasks")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("visible_tasks",
		mcp.WithDescription("List only the tasks visible under a collapse state, with outline level and whether "+
			"each task can be collapsed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the project file")),
		mcp.WithString("collapsed", mcp.Description("Comma-separated UIDs of collapsed summary tasks")),
	), s.visibleTasks)

	s.mcp.AddTool(mcp.NewTool("date_range",
		mcp.WithDescription("Return the padded timeline span of a project (3 days before the earliest start, "+
			"7 days after the latest finish)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the project file")),
	), s.dateRange)

	s.mcp.AddTool(mcp.NewTool("search_tasks",
		mcp.WithDescription("Search task names and notes across every project in the library."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of hits (default 20)")),
	), s.searchTasks)

	s.mcp.AddTool(mcp.NewTool("render_chart",
		mcp.WithDescription("Render the two-pane Gantt chart of a library project as SVG text."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the project file")),
		mcp.WithString("collapsed", mcp.Description("Comma-separated UIDs of collapsed summary tasks")),
		mcp.WithNumber("pixels_per_day", mcp.Description("Horizontal scale (default from configuration)")),
		mcp.WithString("mode", mcp.Description("Header scale"), mcp.Enum("day", "week")),
	), s.renderChart)

	s.mcp.AddTool(mcp.NewTool("parse_project_xml",
		mcp.WithDescription("Parse an MS Project XML document passed inline and return its summary and visible "+
			"tasks. Nothing is stored. Read the format contract first via get_format_contract or the "+
			FormatURI+" resource."),
		mcp.WithString("content", mcp.Required(), mcp.Description("XML text, or a base64 data URI (data:text/xml;base64,...)")),
		mcp.WithString("collapsed", mcp.Description("Comma-separated UIDs of collapsed summary tasks")),
	), s.parseProjectXML)

	s.mcp.AddTool(mcp.NewTool("get_format_contract",
		mcp.WithDescription("Returns the subset of the MS Project XML format that ganttview reads."),
	), s.getFormatContract)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Project XML Format Contract",
			mcp.WithResourceDescription("Elements and values ganttview reads from MS Project XML exports."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(path string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", 50))
	items, total, err := s.svc.ListProjects(ctx, limit, 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if items == nil {
		items = []projectservice.ProjectListItem{}
	}
	return jsonResult(map[string]any{"projects": items, "total": total})
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetProject(ctx, path, gantt.ParseUIDSet(req.GetString("collapsed", "")))
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(d)
}

type visibleTask struct {
	UID         string `json:"uid"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Level       int    `json:"level"`
	Start       string `json:"start"`
	Finish      string `json:"finish"`
	Percent     int    `json:"percent"`
	Milestone   bool   `json:"milestone,omitempty"`
	HasChildren bool   `json:"has_children,omitempty"`
	Collapsed   bool   `json:"collapsed,omitempty"`
}

func (s *Server) visibleTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	d, err := s.svc.GetProject(ctx, path, gantt.ParseUIDSet(req.GetString("collapsed", "")))
	if err != nil {
		return errorResult(path, err), nil
	}
	out := make([]visibleTask, len(d.Tasks))
	for i, t := range d.Tasks {
		out[i] = visibleTask{
			UID:         t.UID,
			ID:          t.ID,
			Name:        t.Name,
			Level:       t.Level(),
			Start:       t.StartLabel,
			Finish:      t.FinishLabel,
			Percent:     t.Percent(),
			Milestone:   t.IsMilestone(),
			HasChildren: t.HasChildren,
			Collapsed:   t.Collapsed,
		}
	}
	return jsonResult(out)
}

func (s *Server) dateRange(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.Chart(ctx, path, projectservice.ChartRequest{})
	if err != nil {
		return errorResult(path, err), nil
	}
	return jsonResult(map[string]any{
		"start": v.Range.Start,
		"end":   v.Range.End,
		"days":  v.Range.Days(),
	})
}

func (s *Server) searchTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchTasks(ctx, query, int(req.GetFloat("limit", 20)))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no matching tasks"), nil
	}
	return jsonResult(hits)
}

func (s *Server) renderChart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mode := gantt.Mode(req.GetString("mode", ""))
	if mode != "" && mode != gantt.ModeDay && mode != gantt.ModeWeek {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported mode: %s (allowed: day, week)", mode)), nil
	}
	cr := projectservice.ChartRequest{
		Collapsed:    gantt.ParseUIDSet(req.GetString("collapsed", "")),
		PixelsPerDay: req.GetFloat("pixels_per_day", 0),
		Mode:         mode,
	}
	var buf bytes.Buffer
	if err := s.svc.RenderChart(ctx, path, cr, &buf); err != nil {
		return errorResult(path, err), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) getFormatContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatContract), nil
}

func (s *Server) readFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     FormatContract,
		},
	}, nil
}
