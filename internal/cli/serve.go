package cli

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/dshills/docgap/internal/config"
	"github.com/dshills/docgap/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gap analyzer over MCP stdio",
	Long: `Expose the analyzer as an MCP server on stdio with tools:
analyze_gaps runs the full pipeline against a code and docs repository,
list_runs and get_run query the run history. One analysis runs at a time;
concurrent analyze_gaps calls receive a busy error.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg)
	if err != nil {
		return err
	}

	log.Println("MCP server ready, listening on stdio...")
	return server.Serve(cmd.Context())
}
