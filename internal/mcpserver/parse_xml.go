package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/ganttview/internal/gantt"
)

// xmlMediaTypes are the data URI media types accepted by parse_project_xml.
var xmlMediaTypes = map[string]bool{
	"text/xml":        true,
	"application/xml": true,
	"":                true,
}

func (s *Server) parseProjectXML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data := []byte(content)
	if strings.HasPrefix(content, "data:") {
		data, err = decodeDataURI(content)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if limit := s.svc.Settings().MaxBytes; int64(len(data)) > limit {
		return mcp.NewToolResultError(fmt.Sprintf("document too large: %d bytes (max %d)", len(data), limit)), nil
	}

	p, err := s.svc.Parse(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.svc.Describe(p, gantt.ParseUIDSet(req.GetString("collapsed", ""))))
}

// decodeDataURI parses a data:[<mediatype>];base64,<data> URI carrying XML.
func decodeDataURI(uri string) ([]byte, error) {
	rest := strings.TrimPrefix(uri, "data:")
	commaIdx := strings.Index(rest, ",")
	if commaIdx < 0 {
		return nil, fmt.Errorf("invalid data URI: missing comma separator")
	}

	meta := rest[:commaIdx]
	encoded := rest[commaIdx+1:]

	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("only base64 data URIs are supported")
	}

	mediaType := strings.TrimSuffix(meta, ";base64")
	if mediaType != "" {
		mt, _, err := mime.ParseMediaType(mediaType)
		if err != nil {
			return nil, fmt.Errorf("invalid media type in data URI: %w", err)
		}
		mediaType = mt
	}
	if !xmlMediaTypes[mediaType] {
		return nil, fmt.Errorf("unsupported media type in data URI: %s (allowed: text/xml, application/xml)", mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data: %w", err)
		}
	}
	return data, nil
}
