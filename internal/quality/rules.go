// Package quality implements the declarative data-quality rules evaluated
// against the movie dataset, and the routing of rows on their outcome.
package quality

import (
	"fmt"
	"regexp"

	"github.com/reeldata/reelpipe/internal/schema"
)

// Kind identifies a rule's check type.
type Kind string

const (
	KindComplete Kind = "complete" // column value must be non-blank
	KindRange    Kind = "range"    // numeric value within [Min, Max]
	KindMatch    Kind = "match"    // value matches Pattern
	KindUnique   Kind = "unique"   // distinct ratio >= Threshold (dataset scope)
	KindMean     Kind = "mean"     // column mean within [Min, Max] (dataset scope)
)

// Scope distinguishes rules that fail individual rows from rules that only
// fail the dataset as a whole.
type Scope string

const (
	ScopeRow     Scope = "row"
	ScopeDataset Scope = "dataset"
)

// Rule is one named declarative constraint over a single column.
type Rule struct {
	Name   string
	Column string
	Kind   Kind

	// Range / mean bounds.
	Min float64
	Max float64

	// Uniqueness ratio threshold.
	Threshold float64

	// Format pattern for match rules.
	Pattern string

	// AllowBlank makes range/match rules skip blank values instead of
	// failing them. Completeness is declared separately where required.
	AllowBlank bool
}

// Scope returns the evaluation scope implied by the rule kind.
func (r Rule) Scope() Scope {
	switch r.Kind {
	case KindUnique, KindMean:
		return ScopeDataset
	default:
		return ScopeRow
	}
}

// Validate checks the rule against the declared source schema.
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule has no name")
	}
	if !schema.HasSourceColumn(r.Column) {
		return fmt.Errorf("rule %s: unknown column %q", r.Name, r.Column)
	}
	switch r.Kind {
	case KindComplete:
	case KindRange, KindMean:
		if r.Min > r.Max {
			return fmt.Errorf("rule %s: min %v exceeds max %v", r.Name, r.Min, r.Max)
		}
	case KindMatch:
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("rule %s: bad pattern: %w", r.Name, err)
		}
	case KindUnique:
		if r.Threshold <= 0 || r.Threshold > 1 {
			return fmt.Errorf("rule %s: threshold %v outside (0, 1]", r.Name, r.Threshold)
		}
	default:
		return fmt.Errorf("rule %s: unknown kind %q", r.Name, r.Kind)
	}
	return nil
}

// Ruleset returns the fixed named rules for the movie dataset.
func Ruleset() []Rule {
	return []Rule{
		{Name: "title_complete", Column: schema.ColSeriesTitle, Kind: KindComplete},
		{Name: "year_complete", Column: schema.ColReleasedYear, Kind: KindComplete},
		{Name: "rating_complete", Column: schema.ColIMDBRating, Kind: KindComplete},
		{Name: "title_unique", Column: schema.ColSeriesTitle, Kind: KindUnique, Threshold: 0.95},
		{Name: "rating_range", Column: schema.ColIMDBRating, Kind: KindRange, Min: 0, Max: 10},
		{Name: "metascore_range", Column: schema.ColMetaScore, Kind: KindRange, Min: 0, Max: 100, AllowBlank: true},
		{Name: "votes_range", Column: schema.ColNoOfVotes, Kind: KindRange, Min: 1, Max: 1 << 40},
		{Name: "year_format", Column: schema.ColReleasedYear, Kind: KindMatch, Pattern: `^[0-9]{4}$`},
		{Name: "gross_format", Column: schema.ColGross, Kind: KindMatch, Pattern: `^[0-9][0-9,]*$`, AllowBlank: true},
		{Name: "rating_mean", Column: schema.ColIMDBRating, Kind: KindMean, Min: 5, Max: 10},
	}
}

// ValidateRules validates every rule and rejects duplicate names.
func ValidateRules(rules []Rule) error {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}
