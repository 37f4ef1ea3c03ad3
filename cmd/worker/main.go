// Package main runs the reelpipe Temporal worker.
package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/reeldata/reelpipe/internal/activities"
	"github.com/reeldata/reelpipe/internal/config"
	"github.com/reeldata/reelpipe/internal/workflows"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log.Printf("Starting reelpipe worker: address=%s namespace=%s queue=%s",
		cfg.TemporalHost, cfg.TemporalNamespace, cfg.TemporalTaskQueue)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalHost,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})

	acts := activities.NewActivities(cfg)
	w.RegisterActivity(acts.Preflight)
	w.RegisterActivity(acts.ExecutePipeline)
	w.RegisterWorkflow(workflows.MoviePipelineWorkflow)

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
