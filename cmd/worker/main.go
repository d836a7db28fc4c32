package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/airport-operations/internal/activities"
	"github.com/cx-tal-miterani/airport-operations/internal/config"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/service"
	"github.com/cx-tal-miterani/airport-operations/internal/workflows"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "airport-worker: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("airport-worker", pflag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("AIRPORT_CONFIG"), "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	ctx := context.Background()

	// The API server writes to the same backend, so every activity starts
	// from a fresh read.
	airport, report, err := service.Open(ctx, cfg.StorageOptions(), service.Options{
		Logger:  logger,
		Refresh: true,
	})
	if err != nil {
		return err
	}
	defer airport.Close()
	logger.Info("Airport records loaded", "driver", cfg.Storage.Driver, "flights", report.Flights, "passengers", report.Passengers)

	logger.Info("Connecting to Temporal", "host", cfg.Temporal.Host)
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.Host,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Temporal: %w", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(workflows.BookingWorkflow, workflow.RegisterOptions{Name: models.BookingWorkflowName})
	activities.NewActivities(airport).Register(w)

	logger.Info("Starting Temporal worker", "taskQueue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("worker failed: %w", err)
	}
	return nil
}
