// Package runstore persists the pipeline run ledger in Postgres.
package runstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run statuses.
const (
	StatusRunning               = "running"
	StatusSucceeded             = "succeeded"
	StatusCompletedWithFailures = "completed_with_failures"
	StatusFailed                = "failed"
)

// Run is one recorded pipeline execution.
type Run struct {
	RunID           string
	Job             string
	Status          string
	RowsRead        int64
	RowsLoaded      int64
	RowsQuarantined int64
	RulesFailed     int
	WarehouseTable  string
	CuratedPath     string
	QuarantinePath  string
	OutcomesPath    string
	Error           string
	StartedAt       time.Time
	FinishedAt      *time.Time
}

// Store records pipeline runs.
type Store struct {
	db *pgxpool.Pool
}

// New connects to Postgres and ensures the ledger table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("run store DSN is required")
	}
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect run store: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
  run_id text PRIMARY KEY,
  job text NOT NULL,
  status text NOT NULL,
  rows_read bigint NOT NULL DEFAULT 0,
  rows_loaded bigint NOT NULL DEFAULT 0,
  rows_quarantined bigint NOT NULL DEFAULT 0,
  rules_failed integer NOT NULL DEFAULT 0,
  warehouse_table text,
  curated_path text,
  quarantine_path text,
  outcomes_path text,
  error text,
  started_at timestamptz NOT NULL DEFAULT now(),
  finished_at timestamptz
)`
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure run ledger schema: %w", err)
	}
	const idx = `CREATE INDEX IF NOT EXISTS idx_pipeline_runs_job ON pipeline_runs(job, started_at DESC)`
	if _, err := s.db.Exec(ctx, idx); err != nil {
		return fmt.Errorf("ensure run ledger index: %w", err)
	}
	return nil
}

// Begin records a run in the running state.
func (s *Store) Begin(ctx context.Context, runID, job string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO pipeline_runs (run_id, job, status) VALUES ($1, $2, $3)`,
		runID, job, StatusRunning,
	)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// Finish records the terminal state and counters of a run.
func (s *Store) Finish(ctx context.Context, run *Run) error {
	_, err := s.db.Exec(ctx, `
UPDATE pipeline_runs SET
  status = $2,
  rows_read = $3,
  rows_loaded = $4,
  rows_quarantined = $5,
  rules_failed = $6,
  warehouse_table = $7,
  curated_path = $8,
  quarantine_path = $9,
  outcomes_path = $10,
  error = $11,
  finished_at = now()
WHERE run_id = $1`,
		run.RunID, run.Status, run.RowsRead, run.RowsLoaded, run.RowsQuarantined,
		run.RulesFailed, run.WarehouseTable, run.CuratedPath, run.QuarantinePath,
		run.OutcomesPath, run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	return nil
}

// Get returns a recorded run, or nil when unknown.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRow(ctx, `
SELECT run_id, job, status, rows_read, rows_loaded, rows_quarantined, rules_failed,
       COALESCE(warehouse_table, ''), COALESCE(curated_path, ''),
       COALESCE(quarantine_path, ''), COALESCE(outcomes_path, ''),
       COALESCE(error, ''), started_at, finished_at
FROM pipeline_runs WHERE run_id = $1`, runID)

	var run Run
	err := row.Scan(
		&run.RunID, &run.Job, &run.Status, &run.RowsRead, &run.RowsLoaded,
		&run.RowsQuarantined, &run.RulesFailed, &run.WarehouseTable,
		&run.CuratedPath, &run.QuarantinePath, &run.OutcomesPath,
		&run.Error, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	return &run, nil
}
