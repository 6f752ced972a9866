package storage

import (
	"context"
	"time"

	"github.com/dshills/docgap/pkg/types"
)

// Run is the durable record of one completed analysis run. The history is
// query-only: nothing here ever feeds a later run's analysis.
type Run struct {
	ID           string
	StartedAt    time.Time
	FinishedAt   time.Time
	CodeRoot     string
	DocsRoot     string
	FileCount    int
	GroupCount   int
	ChunkCount   int
	FailedChunks int
	Summary      string
	ReportPath   string
	Gaps         []types.Gap
}

// Store persists and queries run history.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
