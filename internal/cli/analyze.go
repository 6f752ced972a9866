package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/docgap/internal/analyzer"
	"github.com/dshills/docgap/internal/config"
	"github.com/dshills/docgap/internal/pipeline"
	"github.com/dshills/docgap/internal/storage"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze gaps between a code repo and a docs repo",
	Long: `Run the full gap analysis: extract repository structure, group files
semantically, pack them into token-bounded chunks, analyze each chunk with
the configured Azure OpenAI deployment, and write a Markdown report.

Credentials come from the environment: AZURE_OPENAI_API_KEY,
AZURE_OPENAI_ENDPOINT, and AZURE_OPENAI_DEPLOYMENT_NAME. With --dry-run
only the packing core runs and no credentials are needed.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("code-repo", "", "path to the code repository")
	analyzeCmd.Flags().String("docs-repo", "", "path to the documentation repository")
	analyzeCmd.Flags().StringP("output-file", "o", pipeline.DefaultOutputFile, "output file name for the report")
	analyzeCmd.Flags().Int("max-tokens", 0, "per-request token budget (default 100000)")
	analyzeCmd.Flags().Bool("dry-run", false, "print the chunk plan without calling the model")
	analyzeCmd.Flags().Bool("no-history", false, "skip recording this run in the history database")
	_ = analyzeCmd.MarkFlagRequired("code-repo")
	_ = analyzeCmd.MarkFlagRequired("docs-repo")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	codeRepo, _ := cmd.Flags().GetString("code-repo")
	docsRepo, _ := cmd.Flags().GetString("docs-repo")
	outputFile, _ := cmd.Flags().GetString("output-file")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cfg := config.Load()
	if maxTokens == 0 {
		maxTokens = cfg.MaxTokens
	}

	opts := pipeline.Options{
		CodeRoot:   codeRepo,
		DocsRoot:   docsRepo,
		OutputFile: outputFile,
		Model:      cfg.Model,
		MaxTokens:  maxTokens,
		DryRun:     dryRun,
	}

	var az analyzer.Analyzer
	if !dryRun {
		if err := cfg.Validate(); err != nil {
			return err
		}
		log.Println("Initializing Azure OpenAI Analyzer...")
		a, err := analyzer.NewAzure(analyzer.Config{
			APIKey:     cfg.APIKey,
			Endpoint:   cfg.Endpoint,
			Deployment: cfg.Deployment,
		})
		if err != nil {
			return err
		}
		az = a
	}

	store := openHistory(cfg, dryRun || noHistory)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	p, err := pipeline.New(opts, az, store)
	if err != nil {
		return err
	}

	result, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	if dryRun {
		printChunkPlan(result)
		return nil
	}

	fmt.Printf("\n✅ Analysis complete. Report saved to %s\n", result.ReportPath)
	return nil
}

// openHistory opens the run-history store unless disabled. Open failure is
// non-fatal; the run proceeds without history.
func openHistory(cfg config.Config, disabled bool) storage.Store {
	if disabled {
		return nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		log.Printf("Warning: history disabled: %v", err)
		return nil
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		log.Printf("Warning: history disabled: %v", err)
		return nil
	}
	return store
}

// printChunkPlan writes the dry-run chunk plan to stdout.
func printChunkPlan(result *pipeline.Result) {
	fmt.Printf("Chunk plan: %d files, %d groups, %d chunks\n",
		result.FileCount, result.GroupCount, result.ChunkCount)
	for i, chunk := range result.Chunks {
		fmt.Printf("  chunk %d: %d tokens\n", i+1, chunk.Tokens)
		for _, f := range chunk.Files {
			fmt.Printf("    %s (%s)\n", f.Path, f.Kind)
		}
	}
	_ = os.Stdout.Sync()
}
