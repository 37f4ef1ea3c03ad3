// Package main runs the movie pipeline once, without Temporal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/reeldata/reelpipe/internal/config"
	"github.com/reeldata/reelpipe/internal/connector/objectstore"
	"github.com/reeldata/reelpipe/internal/connector/warehouse"
	"github.com/reeldata/reelpipe/internal/events"
	"github.com/reeldata/reelpipe/internal/job"
	"github.com/reeldata/reelpipe/internal/quality"
	"github.com/reeldata/reelpipe/internal/runstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	inputKey := flag.String("input", cfg.InputKey, "object key of the source CSV")
	table := flag.String("table", cfg.WarehouseTable, "warehouse table to load")
	flag.Parse()
	cfg.InputKey = *inputKey
	cfg.WarehouseTable = *table

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, cleanup, err := buildRunner(ctx, cfg)
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}
	defer cleanup()

	result, err := runner.Run(ctx)
	if err != nil {
		log.Printf("pipeline failed: %v", err)
		os.Exit(1)
	}

	log.Printf("run %s finished: status=%s read=%d loaded=%d quarantined=%d rulesFailed=%d",
		result.RunID, result.Status, result.RowsRead, result.RowsLoaded,
		result.RowsQuarantined, result.RulesFailed)
	log.Printf("curated=%s quarantine=%s outcomes=%s",
		result.CuratedPath, result.QuarantinePath, result.OutcomesPath)
}

func buildRunner(ctx context.Context, cfg *config.Config) (*job.Runner, func(), error) {
	store, err := objectstore.New(objectstore.ParseConfig(cfg.StoreParams()))
	if err != nil {
		return nil, nil, err
	}

	var rules []quality.Rule
	if cfg.RulesFile != "" {
		rules, err = quality.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, nil, err
		}
	}

	loader, err := warehouse.NewLoader(cfg.WarehouseParams())
	if err != nil {
		return nil, nil, err
	}

	var runs *runstore.Store
	if cfg.RunStoreDSN != "" {
		runs, err = runstore.New(ctx, cfg.RunStoreDSN)
		if err != nil {
			loader.Close()
			return nil, nil, err
		}
	}

	bus := events.NewBus(events.LogPublisher{})
	if cfg.WebhookURL != "" {
		wh, err := events.NewWebhookPublisher(events.WebhookConfig{URL: cfg.WebhookURL})
		if err != nil {
			loader.Close()
			if runs != nil {
				runs.Close()
			}
			return nil, nil, err
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
		Store:  store,
		Loader: loader,
		Runs:   runs,
		Bus:    bus,
		Rules:  rules,
		Locations: job.Locations{
			Bucket:           cfg.StoreBucket,
			InputKey:         cfg.InputKey,
			CuratedPrefix:    cfg.CuratedPrefix,
			QuarantinePrefix: cfg.QuarantinePrefix,
			OutcomesPrefix:   cfg.OutcomesPrefix,
		},
	}, cleanup, nil
}
