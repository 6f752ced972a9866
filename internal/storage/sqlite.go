package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/docgap/pkg/types"
)

var (
	// ErrNotFound is returned when a requested run doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore opens (creating if needed) the history database at dbPath
// and applies pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts the run and its gaps in one transaction. An empty run ID
// is assigned a fresh UUID.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, code_root, docs_root,
			file_count, group_count, chunk_count, failed_chunks, summary, report_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.CodeRoot, run.DocsRoot,
		run.FileCount, run.GroupCount, run.ChunkCount, run.FailedChunks, run.Summary, run.ReportPath)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, gap := range run.Gaps {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO gaps (run_id, gap_type, severity, file, description, suggested_change)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, string(gap.Type), string(gap.Severity), gap.File, gap.Description, gap.SuggestedChange)
		if err != nil {
			return fmt.Errorf("insert gap: %w", err)
		}
	}

	return tx.Commit()
}

// GetRun fetches one run with its gaps
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, code_root, docs_root,
			file_count, group_count, chunk_count, failed_chunks, summary, report_path
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.CodeRoot, &run.DocsRoot,
		&run.FileCount, &run.GroupCount, &run.ChunkCount, &run.FailedChunks, &run.Summary, &run.ReportPath)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}

	gaps, err := s.loadGaps(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Gaps = gaps
	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their gaps.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, code_root, docs_root,
			file_count, group_count, chunk_count, failed_chunks, summary, report_path
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.CodeRoot, &run.DocsRoot,
			&run.FileCount, &run.GroupCount, &run.ChunkCount, &run.FailedChunks, &run.Summary, &run.ReportPath); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) loadGaps(ctx context.Context, runID string) ([]types.Gap, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT gap_type, severity, file, description, suggested_change
		FROM gaps WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query gaps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var gaps []types.Gap
	for rows.Next() {
		var gap types.Gap
		var gapType, severity string
		if err := rows.Scan(&gapType, &severity, &gap.File, &gap.Description, &gap.SuggestedChange); err != nil {
			return nil, fmt.Errorf("scan gap: %w", err)
		}
		gap.Type = types.GapType(gapType)
		gap.Severity = types.Severity(severity)
		gaps = append(gaps, gap)
	}
	return gaps, rows.Err()
}

// ElapsedOf is a small helper for presenting run durations.
func ElapsedOf(run *Run) time.Duration {
	return run.FinishedAt.Sub(run.StartedAt)
}
