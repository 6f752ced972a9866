package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docgap/internal/pipeline"
	"github.com/dshills/docgap/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeAnalysisInProgress = -32001 // Another analysis is already running
	ErrorCodeHistoryUnavailable = -32002 // History database not available
	ErrorCodeRunNotFound        = -32003 // Run ID not found
)

// handleAnalyzeGaps handles the analyze_gaps tool invocation
func (s *Server) handleAnalyzeGaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	codePath, ok := args["code_path"].(string)
	if !ok || codePath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "code_path parameter is required", map[string]interface{}{
			"param":  "code_path",
			"reason": "missing or empty",
		})
	}
	docsPath, ok := args["docs_path"].(string)
	if !ok || docsPath == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "docs_path parameter is required", map[string]interface{}{
			"param":  "docs_path",
			"reason": "missing or empty",
		})
	}
	for _, p := range []string{codePath, docsPath} {
		if err := validatePath(p); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
				"param":  p,
				"reason": err.Error(),
			})
		}
	}

	outputFile := getStringDefault(args, "output_file", pipeline.DefaultOutputFile)
	maxTokens := getIntDefault(args, "max_tokens", 0)
	dryRun, _ := args["dry_run"].(bool)

	// One analysis at a time: a run's model calls are strictly sequential
	// and share process-wide progress logging.
	if !s.running.TryAcquire(1) {
		return nil, newMCPError(ErrorCodeAnalysisInProgress, "another analysis is already running", nil)
	}
	defer s.running.Release(1)

	opts := pipeline.Options{
		CodeRoot:   codePath,
		DocsRoot:   docsPath,
		OutputFile: outputFile,
		Model:      s.cfg.Model,
		MaxTokens:  maxTokens,
		DryRun:     dryRun,
	}
	p, err := pipeline.New(opts, s.analyzer, s.store)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "pipeline setup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result, err := p.Run(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "analysis failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"files":         result.FileCount,
		"groups":        result.GroupCount,
		"chunks":        result.ChunkCount,
		"failed_chunks": result.FailedChunks,
		"dry_run":       dryRun,
	}
	if !dryRun {
		response["report_path"] = result.ReportPath
		response["summary"] = result.Report.Summary
		response["gap_count"] = len(result.Report.Gaps)
		if result.RunID != "" {
			response["run_id"] = result.RunID
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, newMCPError(ErrorCodeHistoryUnavailable, "history database not available", nil)
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	limit := getIntDefault(args, "limit", 20)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	items := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		items = append(items, map[string]interface{}{
			"run_id":        run.ID,
			"started_at":    run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			"duration_ms":   storage.ElapsedOf(run).Milliseconds(),
			"code_root":     run.CodeRoot,
			"docs_root":     run.DocsRoot,
			"chunks":        run.ChunkCount,
			"failed_chunks": run.FailedChunks,
			"summary":       run.Summary,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{"runs": items})), nil
}

// handleGetRun handles the get_run tool invocation
func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return nil, newMCPError(ErrorCodeHistoryUnavailable, "history database not available", nil)
	}

	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	runID, ok := args["run_id"].(string)
	if !ok || runID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "run_id parameter is required", map[string]interface{}{
			"param":  "run_id",
			"reason": "missing or empty",
		})
	}

	run, err := s.store.GetRun(ctx, runID)
	if err == storage.ErrNotFound {
		return nil, newMCPError(ErrorCodeRunNotFound, "run not found", map[string]interface{}{
			"run_id": runID,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get run", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"run_id":        run.ID,
		"started_at":    run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		"finished_at":   run.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		"code_root":     run.CodeRoot,
		"docs_root":     run.DocsRoot,
		"files":         run.FileCount,
		"groups":        run.GroupCount,
		"chunks":        run.ChunkCount,
		"failed_chunks": run.FailedChunks,
		"summary":       run.Summary,
		"report_path":   run.ReportPath,
		"gaps":          run.Gaps,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is a readable absolute directory
func validatePath(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist")
	}
	if err != nil {
		return fmt.Errorf("path not readable")
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}
	return nil
}

// getStringDefault extracts a string argument with a default value
func getStringDefault(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

// getIntDefault extracts an integer argument with a default value
func getIntDefault(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// formatJSON renders a response map as indented JSON text
func formatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
