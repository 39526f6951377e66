// Package mcp exposes search and the current status as MCP tools over stdio.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/murmur/internal/domain/content"
	searchuc "github.com/kailas-cloud/murmur/internal/usecase/search"
)

// ServerName is the MCP server name.
const ServerName = "murmur"

// Searcher ranks posts and statuses for a query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) (searchuc.Response, error)
}

// StatusReader returns the latest visible status.
type StatusReader interface {
	Current(ctx context.Context) (content.Entry, error)
}

// Server wraps the MCP server with the content services.
type Server struct {
	mcp      *server.MCPServer
	search   Searcher
	statuses StatusReader
	logger   *zap.Logger
}

// NewServer creates an MCP server and registers its tools.
func NewServer(version string, search Searcher, statuses StatusReader, logger *zap.Logger) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, version),
		search:   search,
		statuses: statuses,
		logger:   logger,
	}
	s.registerTools()
	return s
}

// Serve runs the server on stdio and blocks until the client disconnects.
func (s *Server) Serve(_ context.Context) error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(currentStatusTool(), s.handleCurrentStatus)
}
