package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// analyzeGapsTool returns the tool definition for analyze_gaps
func analyzeGapsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "analyze_gaps",
		Description: "Analyze gaps between a code repository and a documentation repository and write a Markdown report",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the code repository root",
				},
				"docs_path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the documentation repository root",
				},
				"output_file": map[string]interface{}{
					"type":        "string",
					"description": "Report output path",
					"default":     "gap_analysis_report.md",
				},
				"max_tokens": map[string]interface{}{
					"type":        "integer",
					"description": "Per-request token budget (default 100000)",
					"minimum":     1,
				},
				"dry_run": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only compute the chunk plan without calling the model",
					"default":     false,
				},
			},
			Required: []string{"code_path", "docs_path"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List recent gap analysis runs from the history database",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     20,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}

// getRunTool returns the tool definition for get_run
func getRunTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_run",
		Description: "Fetch one gap analysis run, including its gaps, by run ID",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"run_id": map[string]interface{}{
					"type":        "string",
					"description": "Run UUID as returned by analyze_gaps or list_runs",
				},
			},
			Required: []string{"run_id"},
		},
	}
}
