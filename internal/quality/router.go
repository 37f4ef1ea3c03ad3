package quality

import "github.com/reeldata/reelpipe/internal/catalog"

// Routing group labels.
const (
	GroupDefault    = "default"
	GroupQuarantine = "quarantine"
)

// Quarantine reasons.
const (
	ReasonQuality = "quality"
	ReasonCast    = "cast"
)

// QuarantinedRow carries a rejected row with the rules it failed.
type QuarantinedRow struct {
	RowIndex    int         `json:"rowIndex"`
	Row         catalog.Row `json:"row"`
	FailedRules []string    `json:"failedRules,omitempty"`
	Reason      string      `json:"reason"`
	Detail      string      `json:"detail,omitempty"`
}

// Routed is the dataset split into routing groups. Default rows keep their
// original index so later cast failures can be reported against the source.
type Routed struct {
	Default        []catalog.Row
	DefaultIndexes []int
	Quarantine     []QuarantinedRow
}

// Route assigns each row to the default group unless it failed at least one
// row-scoped rule. Dataset-scope failures never quarantine rows.
func Route(ds *catalog.Dataset, eval *Evaluation) *Routed {
	routed := &Routed{}
	for i, row := range ds.Rows {
		if len(eval.RowFailures[i]) > 0 {
			routed.Quarantine = append(routed.Quarantine, QuarantinedRow{
				RowIndex:    i,
				Row:         row,
				FailedRules: eval.RowFailures[i],
				Reason:      ReasonQuality,
			})
			continue
		}
		routed.Default = append(routed.Default, row)
		routed.DefaultIndexes = append(routed.DefaultIndexes, i)
	}
	return routed
}
