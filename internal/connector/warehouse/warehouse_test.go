package warehouse

import (
	"context"
	"os"
	"testing"

	"github.com/reeldata/reelpipe/internal/schema"
)

// Integration test against a real Postgres. Set REELPIPE_TEST_WAREHOUSE_DSN
// to run, e.g. "host=localhost port=5432 user=reelpipe dbname=reelpipe_test sslmode=disable".
func TestLoaderRoundTrip(t *testing.T) {
	dsn := os.Getenv("REELPIPE_TEST_WAREHOUSE_DSN")
	if dsn == "" {
		t.Skip("REELPIPE_TEST_WAREHOUSE_DSN not set")
	}

	ctx := context.Background()
	loader, err := NewLoader(map[string]any{
		"connection_string": dsn,
		"table":             "movies_loader_test",
	})
	if err != nil {
		t.Fatalf("NewLoader failed: %v", err)
	}
	defer func() {
		loader.DB.ExecContext(ctx, "DROP TABLE IF EXISTS movies_loader_test")
		loader.Close()
	}()

	if _, err := loader.Validate(ctx); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if err := loader.Provision(ctx); err != nil {
		t.Fatalf("Provision failed: %v", err)
	}
	// Provision is idempotent.
	if err := loader.Provision(ctx); err != nil {
		t.Fatalf("second Provision failed: %v", err)
	}

	rows := make([]map[string]any, 0, 2)
	for _, title := range []string{"The Godfather", "Casablanca"} {
		row := map[string]any{}
		for _, col := range schema.TargetColumns() {
			row[col] = nil
		}
		row["title"] = title
		row["release_year"] = int64(1972)
		row["imdb_rating"] = 9.2
		row["vote_count"] = int64(100)
		rows = append(rows, row)
	}
	n, err := loader.Load(ctx, rows)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Load reported %d rows, want 2", n)
	}

	count, err := loader.CountRows(ctx)
	if err != nil {
		t.Fatalf("CountRows failed: %v", err)
	}
	if count != 2 {
		t.Errorf("table holds %d rows, want 2", count)
	}
}
