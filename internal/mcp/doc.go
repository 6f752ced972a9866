// Package mcp exposes the gap analyzer as an MCP server over stdio.
// Tools: analyze_gaps runs the full pipeline, list_runs and get_run query
// the run history. Analyses are serialized with a weighted semaphore;
// a concurrent analyze_gaps call receives a busy error rather than
// queueing.
package mcp
