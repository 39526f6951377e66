package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/domain"
	"github.com/kailas-cloud/murmur/internal/domain/content"
)

// MCP error codes.
const (
	ErrorCodeInvalidParams = -32602
	ErrorCodeInternalError = -32603
)

// ToolError is a JSON-RPC level tool failure.
type ToolError struct {
	Code    int
	Message string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

type entryView struct {
	Type     content.Kind   `json:"type"`
	ID       string         `json:"id"`
	Filename string         `json:"filename"`
	Meta     map[string]any `json:"meta"`
	Raw      string         `json:"raw"`
}

func viewOf(e *content.Entry) entryView {
	meta := e.Meta()
	return entryView{
		Type:     e.Kind(),
		ID:       e.ID(),
		Filename: e.Filename(),
		Meta:     meta.Fields(e.Kind()),
		Raw:      e.Raw(),
	}
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, &ToolError{Code: ErrorCodeInvalidParams, Message: "invalid arguments"}
	}
	query, ok := args["query"].(string)
	if !ok {
		return nil, &ToolError{Code: ErrorCodeInvalidParams, Message: "query parameter is required"}
	}
	limit := getIntDefault(args, "limit", defaultLimit)
	if limit < 0 {
		return nil, &ToolError{Code: ErrorCodeInvalidParams, Message: "limit must not be negative"}
	}

	resp, err := s.search.Search(ctx, query, limit)
	if err != nil {
		s.logger.Error("mcp search failed", zap.Error(err))
		return nil, &ToolError{Code: ErrorCodeInternalError, Message: "search failed"}
	}

	items := make([]entryView, len(resp.Hits))
	for i := range resp.Hits {
		items[i] = viewOf(&resp.Hits[i])
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query": query,
		"count": resp.Count,
		"items": items,
	})), nil
}

func (s *Server) handleCurrentStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	e, err := s.statuses.Current(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{"status": nil})), nil
	}
	if err != nil {
		s.logger.Error("mcp current status failed", zap.Error(err))
		return nil, &ToolError{Code: ErrorCodeInternalError, Message: "status lookup failed"}
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"status": viewOf(&e)})), nil
}

// formatJSON formats a map as indented JSON.
func formatJSON(data map[string]interface{}) string {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(b)
}

// getIntDefault extracts an integer parameter; JSON numbers arrive as float64.
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
