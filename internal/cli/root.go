// Package cli implements the docgap command tree.
package cli

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docgap",
	Short: "Find gaps between code and documentation using Azure OpenAI",
	Long: `docgap scans a code repository and a documentation repository, packs
their files into token-bounded chunks grouped by directory and import
relationships, asks a language model to identify gaps (missing, outdated,
or inaccurate documentation, or documented-but-unimplemented features),
and writes a prioritized Markdown report.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the CLI.
func Execute() error {
	// Progress goes to stderr; stdout carries only the final artifacts
	// (and the MCP protocol in serve mode).
	log.SetOutput(os.Stderr)
	return rootCmd.Execute()
}
