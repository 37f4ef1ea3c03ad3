package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/reeldata/reelpipe/internal/config"
	"github.com/reeldata/reelpipe/internal/connector/objectstore"
	"github.com/reeldata/reelpipe/internal/connector/warehouse"
	"github.com/reeldata/reelpipe/internal/events"
	"github.com/reeldata/reelpipe/internal/job"
	"github.com/reeldata/reelpipe/internal/quality"
	"github.com/reeldata/reelpipe/internal/runstore"
)

// Activities holds the pipeline Temporal activities.
type Activities struct {
	cfg *config.Config
}

// NewActivities creates an Activities instance bound to the worker config.
func NewActivities(cfg *config.Config) *Activities {
	return &Activities{cfg: cfg}
}

// Preflight verifies the object store and warehouse are reachable before a
// run is attempted. Failures here are retryable connectivity problems.
func (a *Activities) Preflight(ctx context.Context, req PipelineRequest) (*PreflightResult, error) {
	logger := activity.GetLogger(ctx)

	store, err := objectstore.New(objectstore.ParseConfig(a.cfg.StoreParams()))
	if err != nil {
		return nil, fmt.Errorf("object store: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("object store ping: %w", err)
	}
	exists, err := store.BucketExists(ctx, a.cfg.StoreBucket)
	if err != nil {
		return nil, fmt.Errorf("bucket check: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", a.cfg.StoreBucket)
	}

	loader, err := warehouse.NewLoader(a.warehouseParams(req))
	if err != nil {
		return nil, fmt.Errorf("warehouse: %w", err)
	}
	defer loader.Close()
	version, err := loader.Validate(ctx)
	if err != nil {
		return nil, fmt.Errorf("warehouse validate: %w", err)
	}

	logger.Info("preflight passed", "bucket", a.cfg.StoreBucket, "warehouse", version)
	return &PreflightResult{Bucket: a.cfg.StoreBucket, WarehouseVersion: version}, nil
}

// ExecutePipeline runs the pipeline end to end: read, evaluate, route,
// transform, load, and write artifacts.
func (a *Activities) ExecutePipeline(ctx context.Context, req PipelineRequest) (*PipelineResult, error) {
	logger := activity.GetLogger(ctx)
	locs := a.locations(req)
	logger.Info("starting pipeline", "input", locs.InputKey, "bucket", locs.Bucket)

	runner, cleanup, err := a.buildRunner(ctx, req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	logger.Info("pipeline finished",
		"runId", result.RunID, "status", result.Status,
		"loaded", result.RowsLoaded, "quarantined", result.RowsQuarantined)

	return &PipelineResult{
		RunID:           result.RunID,
		Status:          result.Status,
		RowsRead:        result.RowsRead,
		RowsLoaded:      result.RowsLoaded,
		RowsQuarantined: result.RowsQuarantined,
		RulesFailed:     result.RulesFailed,
		CuratedPath:     result.CuratedPath,
		QuarantinePath:  result.QuarantinePath,
		OutcomesPath:    result.OutcomesPath,
	}, nil
}

func (a *Activities) locations(req PipelineRequest) job.Locations {
	locs := job.Locations{
		Bucket:           a.cfg.StoreBucket,
		InputKey:         a.cfg.InputKey,
		CuratedPrefix:    a.cfg.CuratedPrefix,
		QuarantinePrefix: a.cfg.QuarantinePrefix,
		OutcomesPrefix:   a.cfg.OutcomesPrefix,
	}
	if req.InputKey != "" {
		locs.InputKey = req.InputKey
	}
	if req.CuratedPrefix != "" {
		locs.CuratedPrefix = req.CuratedPrefix
	}
	if req.QuarantinePrefix != "" {
		locs.QuarantinePrefix = req.QuarantinePrefix
	}
	if req.OutcomesPrefix != "" {
		locs.OutcomesPrefix = req.OutcomesPrefix
	}
	return locs
}

func (a *Activities) warehouseParams(req PipelineRequest) map[string]any {
	params := a.cfg.WarehouseParams()
	if req.WarehouseTable != "" {
		params["table"] = req.WarehouseTable
	}
	return params
}

func (a *Activities) buildRunner(ctx context.Context, req PipelineRequest) (*job.Runner, func(), error) {
	store, err := objectstore.New(objectstore.ParseConfig(a.cfg.StoreParams()))
	if err != nil {
		return nil, nil, fmt.Errorf("object store: %w", err)
	}

	var rules []quality.Rule
	if a.cfg.RulesFile != "" {
		rules, err = quality.LoadRules(a.cfg.RulesFile)
		if err != nil {
			return nil, nil, err
		}
	}

	loader, err := warehouse.NewLoader(a.warehouseParams(req))
	if err != nil {
		return nil, nil, fmt.Errorf("warehouse: %w", err)
	}

	var runs *runstore.Store
	if a.cfg.RunStoreDSN != "" {
		runs, err = runstore.New(ctx, a.cfg.RunStoreDSN)
		if err != nil {
			loader.Close()
			return nil, nil, fmt.Errorf("run ledger: %w", err)
		}
	}

	bus := events.NewBus(events.LogPublisher{})
	if a.cfg.WebhookURL != "" {
		wh, err := events.NewWebhookPublisher(events.WebhookConfig{URL: a.cfg.WebhookURL})
		if err != nil {
			loader.Close()
			if runs != nil {
				runs.Close()
			}
			return nil, nil, fmt.Errorf("webhook: %w", err)
		}
		bus.Register(wh)
	}

	cleanup := func() {
		loader.Close()
		if runs != nil {
			runs.Close()
		}
	}
	return &job.Runner{
		Store:     store,
		Loader:    loader,
		Runs:      runs,
		Bus:       bus,
		Locations: a.locations(req),
		Rules:     rules,
	}, cleanup, nil
}
