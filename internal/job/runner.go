package job

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/reeldata/reelpipe/internal/catalog"
	"github.com/reeldata/reelpipe/internal/connector/objectstore"
	"github.com/reeldata/reelpipe/internal/events"
	"github.com/reeldata/reelpipe/internal/quality"
	"github.com/reeldata/reelpipe/internal/runstore"
	"github.com/reeldata/reelpipe/internal/schema"
)

// JobName identifies the pipeline in run records and events.
const JobName = "movie-quality-pipeline"

// Warehouse is the subset of the warehouse loader the runner needs.
type Warehouse interface {
	Provision(ctx context.Context) error
	Load(ctx context.Context, rows []map[string]any) (int64, error)
	Table() string
}

// Runner executes the pipeline end to end.
type Runner struct {
	Store     objectstore.Store
	Loader    Warehouse
	Runs      *runstore.Store // optional
	Bus       *events.Bus
	Locations Locations
	Rules     []quality.Rule
}

// Result summarizes a finished run.
type Result struct {
	RunID           string
	Status          string
	RowsRead        int64
	RowsLoaded      int64
	RowsQuarantined int64
	RulesFailed     int
	CuratedPath     string
	QuarantinePath  string
	OutcomesPath    string
}

// Run executes one pipeline run. The returned Result is non-nil whenever
// the run reached a terminal state, including completed_with_failures.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	runID := "run-" + uuid.New().String()[:8]
	loadDate := time.Now().UTC().Format("2006-01-02")

	if err := r.Locations.Validate(); err != nil {
		return nil, fmt.Errorf("invalid locations: %w", err)
	}

	rules := r.Rules
	if rules == nil {
		rules = quality.Ruleset()
	}
	if err := quality.ValidateRules(rules); err != nil {
		return nil, err
	}

	if r.Runs != nil {
		if err := r.Runs.Begin(ctx, runID, JobName); err != nil {
			return nil, err
		}
	}
	r.publish(ctx, events.Event{RunID: runID, Job: JobName, Type: events.TypeStarted})

	result, err := r.execute(ctx, runID, loadDate, rules)
	if err != nil {
		r.finishRun(ctx, runID, &runstore.Run{
			RunID:  runID,
			Job:    JobName,
			Status: runstore.StatusFailed,
			Error:  err.Error(),
		})
		r.publish(ctx, events.Event{
			RunID:  runID,
			Job:    JobName,
			Type:   events.TypeFailed,
			Detail: err.Error(),
		})
		return nil, err
	}

	r.finishRun(ctx, runID, &runstore.Run{
		RunID:           runID,
		Job:             JobName,
		Status:          result.Status,
		RowsRead:        result.RowsRead,
		RowsLoaded:      result.RowsLoaded,
		RowsQuarantined: result.RowsQuarantined,
		RulesFailed:     result.RulesFailed,
		WarehouseTable:  r.Loader.Table(),
		CuratedPath:     result.CuratedPath,
		QuarantinePath:  result.QuarantinePath,
		OutcomesPath:    result.OutcomesPath,
	})

	evType := events.TypeSucceeded
	if result.Status == runstore.StatusCompletedWithFailures {
		evType = events.TypeCompletedWithFailures
	}
	r.publish(ctx, events.Event{
		RunID: runID,
		Job:   JobName,
		Type:  evType,
		Counts: events.Counts{
			RowsRead:        result.RowsRead,
			RowsLoaded:      result.RowsLoaded,
			RowsQuarantined: result.RowsQuarantined,
			RulesFailed:     result.RulesFailed,
		},
	})

	return result, nil
}

func (r *Runner) execute(ctx context.Context, runID, loadDate string, rules []quality.Rule) (*Result, error) {
	// Read and decode the source CSV.
	data, err := r.Store.GetObject(ctx, r.Locations.Bucket, r.Locations.InputKey)
	if err != nil {
		return nil, fmt.Errorf("read input %s: %w", r.Locations.InputKey, err)
	}
	ds, err := catalog.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := catalog.ValidateAgainstSource(ds); err != nil {
		return nil, err
	}
	logInferenceDrift(ds)

	// Evaluate rules and route rows.
	eval, err := quality.Evaluate(ds, rules)
	if err != nil {
		return nil, err
	}
	routed := quality.Route(ds, eval)

	// Transform the default group; cast failures quarantine the row.
	transformed := make([]map[string]any, 0, len(routed.Default))
	for i, row := range routed.Default {
		out, err := schema.Apply(row)
		if err != nil {
			routed.Quarantine = append(routed.Quarantine, quality.QuarantinedRow{
				RowIndex: routed.DefaultIndexes[i],
				Row:      row,
				Reason:   quality.ReasonCast,
				Detail:   err.Error(),
			})
			continue
		}
		transformed = append(transformed, out)
	}

	// Load the warehouse.
	if err := r.Loader.Provision(ctx); err != nil {
		return nil, err
	}
	loaded, err := r.Loader.Load(ctx, transformed)
	if err != nil {
		return nil, fmt.Errorf("warehouse load: %w", err)
	}

	// Write object-store artifacts.
	aw := &ArtifactWriter{Store: r.Store, Bucket: r.Locations.Bucket}
	curatedPath, err := aw.WriteCurated(ctx, r.Locations.CuratedPrefix, loadDate, runID, transformed)
	if err != nil {
		return nil, fmt.Errorf("write curated: %w", err)
	}
	quarantinePath, err := aw.WriteQuarantine(ctx, r.Locations.QuarantinePrefix, loadDate, runID, routed.Quarantine)
	if err != nil {
		return nil, fmt.Errorf("write quarantine: %w", err)
	}

	report := &OutcomeReport{
		RunID:           runID,
		Job:             JobName,
		EvaluatedAt:     time.Now().UTC(),
		RowsRead:        int64(len(ds.Rows)),
		RowsLoaded:      loaded,
		RowsQuarantined: int64(len(routed.Quarantine)),
		Outcomes:        eval.Outcomes,
	}
	outcomesPath, err := aw.WriteOutcomes(ctx, r.Locations.OutcomesPrefix, loadDate, runID, report)
	if err != nil {
		return nil, fmt.Errorf("write outcomes: %w", err)
	}

	rulesFailed := 0
	for _, o := range eval.Outcomes {
		if !o.Passed {
			rulesFailed++
		}
	}
	status := runstore.StatusSucceeded
	if rulesFailed > 0 {
		status = runstore.StatusCompletedWithFailures
	}

	return &Result{
		RunID:           runID,
		Status:          status,
		RowsRead:        int64(len(ds.Rows)),
		RowsLoaded:      loaded,
		RowsQuarantined: int64(len(routed.Quarantine)),
		RulesFailed:     rulesFailed,
		CuratedPath:     curatedPath,
		QuarantinePath:  quarantinePath,
		OutcomesPath:    outcomesPath,
	}, nil
}

// logInferenceDrift compares inferred column types against the declaration.
// Drift is logged, not fatal: the declared schema stays authoritative.
func logInferenceDrift(ds *catalog.Dataset) {
	for _, inf := range catalog.InferSchema(ds) {
		decl, ok := schema.SourceField(inf.Name)
		if !ok {
			continue
		}
		if decl.DataType != schema.TypeString && inf.DataType != decl.DataType {
			log.Printf("schema drift: column %s inferred as %s, declared %s",
				inf.Name, inf.DataType, decl.DataType)
		}
	}
}

func (r *Runner) publish(ctx context.Context, ev events.Event) {
	if r.Bus == nil {
		return
	}
	_ = r.Bus.Publish(ctx, ev)
}

func (r *Runner) finishRun(ctx context.Context, runID string, run *runstore.Run) {
	if r.Runs == nil {
		return
	}
	if err := r.Runs.Finish(ctx, run); err != nil {
		log.Printf("run ledger update failed for %s: %v", runID, err)
	}
}
