package quality

import (
	"testing"
)

func TestRouteSplitsOnRowFailures(t *testing.T) {
	ds := movieDataset(
		movieRow("Clean", "2001", "7.0", "60", "1000", ""),
		movieRow("", "2002", "7.5", "60", "1000", ""),
		movieRow("Also Clean", "2003", "8.0", "60", "1000", ""),
	)
	eval, err := Evaluate(ds, Ruleset())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	routed := Route(ds, eval)
	if len(routed.Default) != 2 {
		t.Fatalf("default group has %d rows, want 2", len(routed.Default))
	}
	if len(routed.Quarantine) != 1 {
		t.Fatalf("quarantine has %d rows, want 1", len(routed.Quarantine))
	}

	q := routed.Quarantine[0]
	if q.RowIndex != 1 {
		t.Errorf("quarantined row index = %d, want 1", q.RowIndex)
	}
	if q.Reason != ReasonQuality {
		t.Errorf("reason = %q, want %q", q.Reason, ReasonQuality)
	}
	if len(q.FailedRules) != 1 || q.FailedRules[0] != "title_complete" {
		t.Errorf("failed rules = %v", q.FailedRules)
	}
	if got := routed.DefaultIndexes; len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("default indexes = %v", got)
	}
}

func TestRouteKeepsRowsOnDatasetFailures(t *testing.T) {
	// Duplicate titles fail title_unique, a dataset-scope rule, so every
	// row still lands in the default group.
	ds := movieDataset(
		movieRow("Twin", "2001", "7.0", "60", "1000", ""),
		movieRow("Twin", "2001", "7.5", "60", "1000", ""),
		movieRow("Twin", "2001", "8.0", "60", "1000", ""),
	)
	eval, err := Evaluate(ds, Ruleset())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if outcomeByRule(t, eval, "title_unique").Passed {
		t.Fatal("title_unique unexpectedly passed")
	}

	routed := Route(ds, eval)
	if len(routed.Quarantine) != 0 {
		t.Errorf("dataset-scope failure quarantined %d rows", len(routed.Quarantine))
	}
	if len(routed.Default) != len(ds.Rows) {
		t.Errorf("default group has %d rows, want %d", len(routed.Default), len(ds.Rows))
	}
}
