package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultLimit caps tool results so replies stay small.
const defaultLimit = 10

func searchTool() mcp.Tool {
	return mcp.Tool{
		Name: "search",
		Description: "Search posts and statuses. Short queries match tags and status names; " +
			"/pattern/flags runs a regular expression.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search text, or /pattern/i for a regular expression",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results (0 for all)",
					"default":     defaultLimit,
					"minimum":     0,
				},
			},
			Required: []string{"query"},
		},
	}
}

func currentStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "current_status",
		Description: "Return the most recent status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
