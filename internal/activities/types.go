// Package activities provides Temporal activity implementations for the
// movie pipeline.
package activities

// PipelineRequest carries per-invocation overrides for a pipeline run.
// Empty fields fall back to the worker's environment configuration.
type PipelineRequest struct {
	InputKey         string `json:"inputKey,omitempty"`
	CuratedPrefix    string `json:"curatedPrefix,omitempty"`
	QuarantinePrefix string `json:"quarantinePrefix,omitempty"`
	OutcomesPrefix   string `json:"outcomesPrefix,omitempty"`
	WarehouseTable   string `json:"warehouseTable,omitempty"`
}

// PipelineResult summarizes a finished run for the workflow caller.
type PipelineResult struct {
	RunID           string `json:"runId"`
	Status          string `json:"status"`
	RowsRead        int64  `json:"rowsRead"`
	RowsLoaded      int64  `json:"rowsLoaded"`
	RowsQuarantined int64  `json:"rowsQuarantined"`
	RulesFailed     int    `json:"rulesFailed"`
	CuratedPath     string `json:"curatedPath,omitempty"`
	QuarantinePath  string `json:"quarantinePath,omitempty"`
	OutcomesPath    string `json:"outcomesPath,omitempty"`
}

// PreflightResult reports connectivity checks performed before a run.
type PreflightResult struct {
	Bucket           string `json:"bucket"`
	WarehouseVersion string `json:"warehouseVersion"`
}
