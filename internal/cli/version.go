package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/docgap/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("docgap\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
