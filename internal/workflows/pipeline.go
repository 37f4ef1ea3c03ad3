// Package workflows defines the Temporal workflow for the movie pipeline.
package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/reeldata/reelpipe/internal/activities"
)

// MoviePipelineWorkflow runs a preflight check and then the pipeline itself.
// Connectivity problems retry with backoff; the pipeline activity retries a
// small number of times since a rerun reprocesses the whole input.
func MoviePipelineWorkflow(ctx workflow.Context, req activities.PipelineRequest) (*activities.PipelineResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("movie pipeline workflow started")

	var a *activities.Activities

	preflightCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})
	var preflight activities.PreflightResult
	if err := workflow.ExecuteActivity(preflightCtx, a.Preflight, req).Get(ctx, &preflight); err != nil {
		return nil, err
	}
	logger.Info("preflight passed", "bucket", preflight.Bucket, "warehouse", preflight.WarehouseVersion)

	runCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    30 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    2,
		},
	})
	var result activities.PipelineResult
	if err := workflow.ExecuteActivity(runCtx, a.ExecutePipeline, req).Get(ctx, &result); err != nil {
		return nil, err
	}

	logger.Info("movie pipeline workflow finished",
		"runId", result.RunID, "status", result.Status)
	return &result, nil
}
