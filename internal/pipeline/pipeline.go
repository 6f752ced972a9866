// Package pipeline orchestrates a full gap analysis run: extract, group,
// chunk, analyze, synthesize, render.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/docgap/internal/analyzer"
	"github.com/dshills/docgap/internal/chunker"
	"github.com/dshills/docgap/internal/grouper"
	"github.com/dshills/docgap/internal/report"
	"github.com/dshills/docgap/internal/storage"
	"github.com/dshills/docgap/internal/structure"
	"github.com/dshills/docgap/internal/tokenizer"
	"github.com/dshills/docgap/pkg/types"
)

// DefaultOutputFile is where the Markdown report lands unless overridden.
const DefaultOutputFile = "gap_analysis_report.md"

// Options configures one run.
type Options struct {
	CodeRoot   string
	DocsRoot   string
	OutputFile string
	Model      string // tokenizer vocabulary model
	MaxTokens  int    // 0 means chunker default
	DryRun     bool   // stop after chunk planning, no model calls
}

// Pipeline wires the stages together: extract, group, chunk, analyze,
// synthesize, render. Stages run strictly in sequence; every model call
// completes before the next chunk starts.
type Pipeline struct {
	opts     Options
	chunker  *chunker.Chunker
	analyzer analyzer.Analyzer
	store    storage.Store // nil disables history recording
	logf     func(format string, args ...any)
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Report       *types.Report
	ReportPath   string
	Chunks       []types.Chunk
	FileCount    int
	GroupCount   int
	ChunkCount   int
	FailedChunks int
}

// New creates a Pipeline. The analyzer may be nil only for dry runs;
// the store may always be nil.
func New(opts Options, a analyzer.Analyzer, store storage.Store) (*Pipeline, error) {
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultOutputFile
	}
	counter, err := tokenizer.New(opts.Model)
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	if a == nil && !opts.DryRun {
		return nil, fmt.Errorf("analyzer is required unless running dry")
	}
	return &Pipeline{
		opts:     opts,
		chunker:  chunker.New(counter, opts.MaxTokens),
		analyzer: a,
		store:    store,
		logf:     log.Printf,
	}, nil
}

// NewWithCounter creates a Pipeline with an explicit token counter instead
// of loading the real BPE vocabulary. Used by tests.
func NewWithCounter(opts Options, counter chunker.TokenCounter, a analyzer.Analyzer, store storage.Store) *Pipeline {
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultOutputFile
	}
	return &Pipeline{
		opts:     opts,
		chunker:  chunker.New(counter, opts.MaxTokens),
		analyzer: a,
		store:    store,
		logf:     log.Printf,
	}
}

// Run executes the full pipeline. A report is always written, even when
// every chunk's model call failed; per-chunk failures are recorded and
// excluded from synthesis. Dry runs stop after chunk planning and write
// nothing.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	startedAt := time.Now()

	p.logf("1. Extracting code structure...")
	repo, err := structure.NewExtractor().Extract(p.opts.CodeRoot)
	if err != nil {
		return nil, fmt.Errorf("extract structure: %w", err)
	}

	p.logf("2. Grouping files semantically...")
	groups := grouper.Group(repo)
	p.logf("   Created %d semantic groups.", len(groups))

	p.logf("3. Creating chunks for analysis...")
	var allChunks []types.Chunk
	for _, group := range groups {
		allChunks = append(allChunks, p.chunker.BuildChunks(group, p.opts.CodeRoot, p.opts.DocsRoot)...)
	}
	p.logf("   Created %d chunks total.", len(allChunks))

	result := &Result{
		Chunks:     allChunks,
		FileCount:  len(repo.Files),
		GroupCount: len(groups),
		ChunkCount: len(allChunks),
	}

	if p.opts.DryRun {
		return result, nil
	}

	p.logf("4. Analyzing chunks with Azure OpenAI...")
	chunkResults := make([]*types.AnalysisResult, 0, len(allChunks))
	for i, chunk := range allChunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logf("   Analyzing chunk %d/%d (%d files, %d tokens)...",
			i+1, len(allChunks), len(chunk.Files), chunk.Tokens)
		res := p.analyzer.AnalyzeChunk(ctx, chunk)
		if res.Failed() {
			result.FailedChunks++
		}
		chunkResults = append(chunkResults, res)
	}

	p.logf("5. Synthesizing results...")
	result.Report = report.Synthesize(chunkResults)

	p.logf("6. Generating Markdown report...")
	rendered := report.RenderMarkdown(result.Report)
	if err := os.WriteFile(p.opts.OutputFile, []byte(rendered), 0644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	result.ReportPath = p.opts.OutputFile

	result.RunID = p.recordHistory(ctx, startedAt, result)

	return result, nil
}

// recordHistory saves the run when a store is attached. Failure here never
// fails the run.
func (p *Pipeline) recordHistory(ctx context.Context, startedAt time.Time, result *Result) string {
	if p.store == nil {
		return ""
	}
	run := &storage.Run{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		FinishedAt:   time.Now(),
		CodeRoot:     p.opts.CodeRoot,
		DocsRoot:     p.opts.DocsRoot,
		FileCount:    result.FileCount,
		GroupCount:   result.GroupCount,
		ChunkCount:   result.ChunkCount,
		FailedChunks: result.FailedChunks,
		Summary:      result.Report.Summary,
		ReportPath:   result.ReportPath,
		Gaps:         result.Report.Gaps,
	}
	if err := p.store.SaveRun(ctx, run); err != nil {
		p.logf("Warning: could not record run history: %v", err)
		return ""
	}
	return run.ID
}
