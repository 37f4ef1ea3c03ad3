package quality

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/reeldata/reelpipe/internal/catalog"
)

// Outcome is the evaluated result of one rule over the whole dataset.
type Outcome struct {
	Rule       string  `json:"rule"`
	Column     string  `json:"column"`
	Kind       Kind    `json:"kind"`
	Scope      Scope   `json:"scope"`
	Passed     bool    `json:"passed"`
	FailedRows int     `json:"failedRows,omitempty"`
	Observed   float64 `json:"observed,omitempty"`
	Detail     string  `json:"detail,omitempty"`
}

// Evaluation aggregates rule outcomes with the per-row failure sets that
// drive routing. RowFailures[i] lists the row-scoped rules row i failed.
type Evaluation struct {
	Outcomes    []Outcome
	RowFailures [][]string
}

// DatasetFailures returns the names of failed dataset-scope rules.
func (e *Evaluation) DatasetFailures() []string {
	var failed []string
	for _, o := range e.Outcomes {
		if o.Scope == ScopeDataset && !o.Passed {
			failed = append(failed, o.Rule)
		}
	}
	return failed
}

// Passed reports whether every rule passed.
func (e *Evaluation) Passed() bool {
	for _, o := range e.Outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}

// Evaluate runs the ruleset against the dataset. Rules are validated first;
// a rule referencing a missing column is an error, not a failed outcome.
func Evaluate(ds *catalog.Dataset, rules []Rule) (*Evaluation, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is required")
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	eval := &Evaluation{
		Outcomes:    make([]Outcome, 0, len(rules)),
		RowFailures: make([][]string, len(ds.Rows)),
	}

	for _, rule := range rules {
		out := Outcome{Rule: rule.Name, Column: rule.Column, Kind: rule.Kind, Scope: rule.Scope()}
		switch rule.Kind {
		case KindComplete:
			evalRowRule(ds, rule, &out, eval, func(v string) bool {
				return v != ""
			})
		case KindRange:
			evalRowRule(ds, rule, &out, eval, func(v string) bool {
				f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
				return err == nil && f >= rule.Min && f <= rule.Max
			})
		case KindMatch:
			re := regexp.MustCompile(rule.Pattern)
			evalRowRule(ds, rule, &out, eval, re.MatchString)
		case KindUnique:
			total := len(ds.Rows)
			distinct := make(map[string]struct{}, total)
			for _, row := range ds.Rows {
				distinct[strings.TrimSpace(row[rule.Column])] = struct{}{}
			}
			ratio := 1.0
			if total > 0 {
				ratio = float64(len(distinct)) / float64(total)
			}
			out.Observed = ratio
			out.Passed = ratio >= rule.Threshold
			if !out.Passed {
				out.Detail = fmt.Sprintf("distinct ratio %.4f below threshold %.2f", ratio, rule.Threshold)
			}
		case KindMean:
			var sum float64
			var n int
			for _, row := range ds.Rows {
				v := strings.TrimSpace(row[rule.Column])
				if v == "" {
					continue
				}
				f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
				if err != nil {
					continue
				}
				sum += f
				n++
			}
			if n == 0 {
				out.Passed = false
				out.Detail = "no numeric values observed"
				break
			}
			mean := sum / float64(n)
			out.Observed = mean
			out.Passed = mean >= rule.Min && mean <= rule.Max
			if !out.Passed {
				out.Detail = fmt.Sprintf("mean %.4f outside [%v, %v]", mean, rule.Min, rule.Max)
			}
		}
		eval.Outcomes = append(eval.Outcomes, out)
	}

	return eval, nil
}

// evalRowRule applies a row-scoped predicate, recording per-row failures.
func evalRowRule(ds *catalog.Dataset, rule Rule, out *Outcome, eval *Evaluation, ok func(string) bool) {
	out.Passed = true
	for i, row := range ds.Rows {
		v := strings.TrimSpace(row[rule.Column])
		if v == "" && rule.AllowBlank {
			continue
		}
		if ok(v) {
			continue
		}
		out.Passed = false
		out.FailedRows++
		eval.RowFailures[i] = append(eval.RowFailures[i], rule.Name)
	}
	if !out.Passed {
		out.Detail = fmt.Sprintf("%d rows failed", out.FailedRows)
	}
}
