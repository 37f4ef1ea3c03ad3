package quality

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write ruleset: %v", err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
rules:
  - name: title_complete
    column: Series_Title
    kind: complete
  - name: rating_range
    column: IMDB_Rating
    kind: range
    min: 0
    max: 10
  - name: votes_floor
    column: No_of_Votes
    kind: range
    min: 1
  - name: title_unique
    column: Series_Title
    kind: unique
    threshold: 0.9
  - name: gross_format
    column: Gross
    kind: match
    pattern: "^[0-9][0-9,]*$"
    allow_blank: true
`)

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules failed: %v", err)
	}
	if len(rules) != 5 {
		t.Fatalf("loaded %d rules, want 5", len(rules))
	}

	byName := map[string]Rule{}
	for _, r := range rules {
		byName[r.Name] = r
	}
	if r := byName["rating_range"]; r.Kind != KindRange || r.Min != 0 || r.Max != 10 {
		t.Errorf("rating_range = %+v", r)
	}
	if r := byName["votes_floor"]; r.Min != 1 || !math.IsInf(r.Max, 1) {
		t.Errorf("omitted max not unbounded: %+v", r)
	}
	if r := byName["title_unique"]; r.Threshold != 0.9 {
		t.Errorf("title_unique = %+v", r)
	}
	if r := byName["gross_format"]; !r.AllowBlank {
		t.Errorf("gross_format allow_blank not carried: %+v", r)
	}
}

func TestLoadRulesRejectsUnknownColumn(t *testing.T) {
	path := writeRules(t, `
rules:
  - name: budget_complete
    column: Budget
    kind: complete
`)
	if _, err := LoadRules(path); err == nil {
		t.Fatal("ruleset with undeclared column accepted")
	}
}

func TestLoadRulesRejectsEmptyAndMissing(t *testing.T) {
	path := writeRules(t, "rules: []\n")
	if _, err := LoadRules(path); err == nil {
		t.Error("empty ruleset accepted")
	}
	if _, err := LoadRules(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing ruleset file accepted")
	}
}
