package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/semaphore"

	"github.com/dshills/docgap/internal/analyzer"
	"github.com/dshills/docgap/internal/config"
	"github.com/dshills/docgap/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "docgap"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies. Analyses are
// serialized: the model calls inside a run are strictly sequential, and a
// second analyze_gaps while one is running gets a busy error.
type Server struct {
	mcp      *server.MCPServer
	cfg      config.Config
	analyzer analyzer.Analyzer
	store    storage.Store // nil when the history database is unavailable
	running  *semaphore.Weighted
}

// NewServer creates a new MCP server instance. Credentials must already be
// validated; the history store is optional and its absence is only logged.
func NewServer(cfg config.Config) (*Server, error) {
	az, err := analyzer.NewAzure(analyzer.Config{
		APIKey:     cfg.APIKey,
		Endpoint:   cfg.Endpoint,
		Deployment: cfg.Deployment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	var store storage.Store
	if path, err := cfg.HistoryPath(); err != nil {
		log.Printf("Warning: history disabled: %v", err)
	} else if s, err := storage.NewSQLiteStore(path); err != nil {
		log.Printf("Warning: history disabled: %v", err)
	} else {
		store = s
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		cfg:      cfg,
		analyzer: az,
		store:    store,
		running:  semaphore.NewWeighted(1),
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() {
		if s.store != nil {
			_ = s.store.Close()
		}
	}()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(analyzeGapsTool(), s.handleAnalyzeGaps)
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)
	s.mcp.AddTool(getRunTool(), s.handleGetRun)
}
