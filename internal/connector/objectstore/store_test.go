package objectstore

import (
	"context"
	"errors"
	"testing"
)

func TestLocalStorePutGet(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	if err := store.EnsureBucket(ctx, "reelpipe"); err != nil {
		t.Fatalf("EnsureBucket failed: %v", err)
	}
	exists, err := store.BucketExists(ctx, "reelpipe")
	if err != nil || !exists {
		t.Fatalf("BucketExists = %v, %v", exists, err)
	}

	payload := []byte("Series_Title,Released_Year\nThe Godfather,1972\n")
	if err := store.PutObject(ctx, "reelpipe", "landing/movies.csv", payload); err != nil {
		t.Fatalf("PutObject failed: %v", err)
	}

	got, err := store.GetObject(ctx, "reelpipe", "landing/movies.csv")
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("round trip mismatch: %q", got)
	}

	if err := store.DeleteObject(ctx, "reelpipe", "landing/movies.csv"); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}
	if _, err := store.GetObject(ctx, "reelpipe", "landing/movies.csv"); err == nil {
		t.Error("object readable after delete")
	}
}

func TestLocalStoreMissingObject(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	_, err := store.GetObject(ctx, "reelpipe", "landing/absent.csv")
	if err == nil {
		t.Fatal("GetObject returned data for a missing object")
	}
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("error type %T, want *Error", err)
	}
	if serr.CodeValue() != CodeObjectNotFound {
		t.Errorf("code = %s, want %s", serr.CodeValue(), CodeObjectNotFound)
	}
	if serr.RetryableStatus() {
		t.Error("missing object marked retryable")
	}
}

func TestLocalStoreListPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	keys := []string{
		"curated/movies/dt=2026-08-30/run=run-1/part-000000.parquet",
		"curated/movies/dt=2026-08-30/run=run-2/part-000000.parquet",
		"quarantine/movies/dt=2026-08-30/run=run-1/part-000000.jsonl.gz",
	}
	for _, key := range keys {
		if err := store.PutObject(ctx, "reelpipe", key, []byte("x")); err != nil {
			t.Fatalf("PutObject %s failed: %v", key, err)
		}
	}

	got, err := store.ListPrefix(ctx, "reelpipe", "curated/movies")
	if err != nil {
		t.Fatalf("ListPrefix failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListPrefix returned %d keys, want 2: %v", len(got), got)
	}
	if got[0] != keys[0] || got[1] != keys[1] {
		t.Errorf("ListPrefix keys = %v", got)
	}

	empty, err := store.ListPrefix(ctx, "reelpipe", "outcomes/movies")
	if err != nil {
		t.Fatalf("ListPrefix on absent prefix failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("absent prefix returned keys: %v", empty)
	}
}

func TestParseConfigSelectsLocalStore(t *testing.T) {
	dir := t.TempDir()
	cfg := ParseConfig(map[string]any{
		"endpoint_url": "file://" + dir,
		"bucket":       "reelpipe",
	})
	store, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := store.(*LocalStore); !ok {
		t.Fatalf("store type %T, want *LocalStore", store)
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"curated/movies", "dt=2026-08-30", "part.parquet"}, "curated/movies/dt=2026-08-30/part.parquet"},
		{[]string{"/leading", "key"}, "leading/key"},
		{[]string{"a", "", "b"}, "a/b"},
	}
	for _, tc := range cases {
		if got := JoinPath(tc.parts...); got != tc.want {
			t.Errorf("JoinPath(%v) = %q, want %q", tc.parts, got, tc.want)
		}
	}
}
