package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docgap/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testRun(id string, started time.Time) *Run {
	return &Run{
		ID:           id,
		StartedAt:    started,
		FinishedAt:   started.Add(90 * time.Second),
		CodeRoot:     "/repo/code",
		DocsRoot:     "/repo/docs",
		FileCount:    42,
		GroupCount:   5,
		ChunkCount:   7,
		FailedChunks: 1,
		Summary:      "Analyzed 42 files and found 3 gaps.",
		ReportPath:   "gap_analysis_report.md",
		Gaps: []types.Gap{
			{
				Type:            types.GapMissingDocumentation,
				Severity:        types.SeverityHigh,
				File:            "app/main.py",
				Description:     "main is undocumented",
				SuggestedChange: "document main",
			},
			{
				Type:            types.GapOutdatedDocumentation,
				Severity:        types.SeverityLow,
				File:            "README.md",
				Description:     "setup section stale",
				SuggestedChange: "refresh setup section",
			},
		},
	}
}

func TestSQLiteStore_SaveAndGetRun(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := testRun("run-1", started)
	require.NoError(t, store.SaveRun(ctx, run))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.CodeRoot, got.CodeRoot)
	assert.Equal(t, run.DocsRoot, got.DocsRoot)
	assert.Equal(t, run.FileCount, got.FileCount)
	assert.Equal(t, run.FailedChunks, got.FailedChunks)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, run.ReportPath, got.ReportPath)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Second)
	assert.WithinDuration(t, run.FinishedAt, got.FinishedAt, time.Second)

	require.Len(t, got.Gaps, 2)
	assert.Equal(t, types.GapMissingDocumentation, got.Gaps[0].Type)
	assert.Equal(t, types.SeverityHigh, got.Gaps[0].Severity)
	assert.Equal(t, "app/main.py", got.Gaps[0].File)
	assert.Equal(t, types.GapOutdatedDocumentation, got.Gaps[1].Type)
}

func TestSQLiteStore_SaveRunAssignsID(t *testing.T) {
	store := newTestStore(t)

	run := testRun("", time.Now())
	require.NoError(t, store.SaveRun(context.Background(), run))
	assert.NotEmpty(t, run.ID)

	got, err := store.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
}

func TestSQLiteStore_GetRunNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListRunsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := testRun("", base.Add(time.Duration(i)*time.Hour))
		run.Gaps = nil
		require.NoError(t, store.SaveRun(ctx, run))
	}

	runs, err := store.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.True(t, runs[1].StartedAt.After(runs[2].StartedAt))

	limited, err := store.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSQLiteStore_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	run := testRun("persisted", time.Now())
	require.NoError(t, store.SaveRun(context.Background(), run))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetRun(context.Background(), "persisted")
	require.NoError(t, err)
	assert.Len(t, got.Gaps, 2)
}

func TestElapsedOf(t *testing.T) {
	run := testRun("x", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 90*time.Second, ElapsedOf(run))
}
