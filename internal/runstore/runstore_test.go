package runstore

import (
	"context"
	"os"
	"testing"
)

// Integration test against a real Postgres. Set REELPIPE_TEST_RUNSTORE_DSN
// to run.
func TestStoreLifecycle(t *testing.T) {
	dsn := os.Getenv("REELPIPE_TEST_RUNSTORE_DSN")
	if dsn == "" {
		t.Skip("REELPIPE_TEST_RUNSTORE_DSN not set")
	}

	ctx := context.Background()
	store, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	const runID = "run-store-test"
	if err := store.Begin(ctx, runID, "movie-quality-pipeline"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	got, err := store.Get(ctx, runID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Status != StatusRunning {
		t.Fatalf("run after Begin = %+v", got)
	}

	err = store.Finish(ctx, &Run{
		RunID:           runID,
		Job:             "movie-quality-pipeline",
		Status:          StatusCompletedWithFailures,
		RowsRead:        1000,
		RowsLoaded:      950,
		RowsQuarantined: 50,
		RulesFailed:     2,
		WarehouseTable:  "movies",
		CuratedPath:     "s3://reelpipe/curated/movies/dt=2026-08-30/run=run-store-test/part-000000.parquet",
	})
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	got, err = store.Get(ctx, runID)
	if err != nil {
		t.Fatalf("Get after Finish failed: %v", err)
	}
	if got.Status != StatusCompletedWithFailures || got.RowsLoaded != 950 {
		t.Errorf("finished run = %+v", got)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}

	missing, err := store.Get(ctx, "run-absent")
	if err != nil {
		t.Fatalf("Get for absent run failed: %v", err)
	}
	if missing != nil {
		t.Errorf("absent run = %+v", missing)
	}
}
