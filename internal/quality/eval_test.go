package quality

import (
	"testing"

	"github.com/reeldata/reelpipe/internal/catalog"
	"github.com/reeldata/reelpipe/internal/schema"
)

func movieRow(title, year, rating, metascore, votes, gross string) catalog.Row {
	return catalog.Row{
		schema.ColSeriesTitle:  title,
		schema.ColReleasedYear: year,
		schema.ColIMDBRating:   rating,
		schema.ColMetaScore:    metascore,
		schema.ColNoOfVotes:    votes,
		schema.ColGross:        gross,
	}
}

func movieDataset(rows ...catalog.Row) *catalog.Dataset {
	return &catalog.Dataset{
		Columns: schema.SourceColumns(),
		Rows:    rows,
	}
}

func outcomeByRule(t *testing.T, eval *Evaluation, name string) Outcome {
	t.Helper()
	for _, o := range eval.Outcomes {
		if o.Rule == name {
			return o
		}
	}
	t.Fatalf("no outcome for rule %s", name)
	return Outcome{}
}

func TestRulesetColumnsAreDeclared(t *testing.T) {
	if err := ValidateRules(Ruleset()); err != nil {
		t.Fatalf("fixed ruleset invalid: %v", err)
	}
	for _, r := range Ruleset() {
		if !schema.HasSourceColumn(r.Column) {
			t.Errorf("rule %s references undeclared column %s", r.Name, r.Column)
		}
	}
}

func TestRuleScopes(t *testing.T) {
	scopes := map[Kind]Scope{
		KindComplete: ScopeRow,
		KindRange:    ScopeRow,
		KindMatch:    ScopeRow,
		KindUnique:   ScopeDataset,
		KindMean:     ScopeDataset,
	}
	for kind, want := range scopes {
		if got := (Rule{Kind: kind}).Scope(); got != want {
			t.Errorf("kind %s scope = %s, want %s", kind, got, want)
		}
	}
}

func TestValidateRulesRejectsBadRules(t *testing.T) {
	cases := []struct {
		name string
		rule Rule
	}{
		{"unknown column", Rule{Name: "r", Column: "Budget", Kind: KindComplete}},
		{"no name", Rule{Column: schema.ColGross, Kind: KindComplete}},
		{"min above max", Rule{Name: "r", Column: schema.ColIMDBRating, Kind: KindRange, Min: 5, Max: 1}},
		{"bad pattern", Rule{Name: "r", Column: schema.ColGross, Kind: KindMatch, Pattern: "["}},
		{"zero threshold", Rule{Name: "r", Column: schema.ColSeriesTitle, Kind: KindUnique}},
		{"unknown kind", Rule{Name: "r", Column: schema.ColGross, Kind: Kind("checksum")}},
	}
	for _, tc := range cases {
		if err := ValidateRules([]Rule{tc.rule}); err == nil {
			t.Errorf("%s: rule accepted", tc.name)
		}
	}
}

func TestValidateRulesRejectsDuplicateNames(t *testing.T) {
	rules := []Rule{
		{Name: "dup", Column: schema.ColSeriesTitle, Kind: KindComplete},
		{Name: "dup", Column: schema.ColGross, Kind: KindComplete},
	}
	if err := ValidateRules(rules); err == nil {
		t.Fatal("duplicate rule names accepted")
	}
}

func TestEvaluateRowRules(t *testing.T) {
	// Row 1 is clean; rows 2-4 fail title_complete, year_format and
	// rating_range respectively.
	ds := movieDataset(
		movieRow("The Godfather", "1972", "9.2", "100", "1620367", "134,966,411"),
		movieRow("", "1994", "8.8", "80", "500000", ""),
		movieRow("Metropolis", "192x", "8.3", "98", "159992", ""),
		movieRow("Bad Rating", "1999", "11.5", "60", "1000", ""),
	)

	eval, err := Evaluate(ds, Ruleset())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if o := outcomeByRule(t, eval, "title_complete"); o.Passed || o.FailedRows != 1 {
		t.Errorf("title_complete = %+v", o)
	}
	if o := outcomeByRule(t, eval, "year_format"); o.Passed || o.FailedRows != 1 {
		t.Errorf("year_format = %+v", o)
	}
	if o := outcomeByRule(t, eval, "rating_range"); o.Passed || o.FailedRows != 1 {
		t.Errorf("rating_range = %+v", o)
	}
	if o := outcomeByRule(t, eval, "gross_format"); !o.Passed {
		t.Errorf("gross_format failed with blanks allowed: %+v", o)
	}

	if len(eval.RowFailures[0]) != 0 {
		t.Errorf("clean row recorded failures: %v", eval.RowFailures[0])
	}
	if got := eval.RowFailures[1]; len(got) != 1 || got[0] != "title_complete" {
		t.Errorf("row 1 failures = %v", got)
	}
}

func TestEvaluateDatasetRules(t *testing.T) {
	// Three titles, two identical: distinct ratio 2/3 fails the 0.95
	// threshold. Low ratings drag the mean under 5.
	ds := movieDataset(
		movieRow("Twin", "2001", "3.0", "50", "1000", ""),
		movieRow("Twin", "2001", "3.5", "50", "1000", ""),
		movieRow("Other", "2002", "4.0", "50", "1000", ""),
	)

	eval, err := Evaluate(ds, Ruleset())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	unique := outcomeByRule(t, eval, "title_unique")
	if unique.Passed {
		t.Errorf("title_unique passed at ratio %.3f", unique.Observed)
	}
	mean := outcomeByRule(t, eval, "rating_mean")
	if mean.Passed {
		t.Errorf("rating_mean passed at mean %.3f", mean.Observed)
	}

	failed := eval.DatasetFailures()
	if len(failed) != 2 {
		t.Errorf("DatasetFailures = %v, want title_unique and rating_mean", failed)
	}

	// Dataset-scope failures never mark individual rows.
	for i, rf := range eval.RowFailures {
		if len(rf) != 0 {
			t.Errorf("row %d has failures %v from dataset-scope rules", i, rf)
		}
	}
}

func TestEvaluateRejectsUnknownColumn(t *testing.T) {
	ds := movieDataset(movieRow("A", "2000", "7.0", "", "100", ""))
	_, err := Evaluate(ds, []Rule{{Name: "r", Column: "Budget", Kind: KindComplete}})
	if err == nil {
		t.Fatal("Evaluate accepted rule on unknown column")
	}
}
