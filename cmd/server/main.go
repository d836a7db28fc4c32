package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/airport-operations/internal/config"
	"github.com/cx-tal-miterani/airport-operations/internal/handlers"
	"github.com/cx-tal-miterani/airport-operations/internal/metrics"
	"github.com/cx-tal-miterani/airport-operations/internal/router"
	"github.com/cx-tal-miterani/airport-operations/internal/service"
	"github.com/cx-tal-miterani/airport-operations/internal/websocket"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "airport-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("airport-server", pflag.ContinueOnError)
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	opts := service.Options{Logger: logger, Metrics: m}

	var hub *websocket.Hub
	if cfg.Server.LiveUpdates {
		hub = websocket.NewHub(logger.With("component", "websocket"))
		go hub.Run(ctx)
		opts.Notifier = hub
	}

	if cfg.Temporal.Enabled {
		logger.Info("Connecting to Temporal", "host", cfg.Temporal.Host)
		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.Host,
			Namespace: cfg.Temporal.Namespace,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create Temporal client: %w", err)
		}
		defer temporalClient.Close()
		opts.Saga = service.NewTemporalSaga(temporalClient, cfg.Temporal.TaskQueue)
		// The worker writes to the same backend.
		opts.Refresh = true
	}

	airport, report, err := service.Open(ctx, cfg.StorageOptions(), opts)
	if err != nil {
		return err
	}
	defer airport.Close()
	logger.Info("Airport records loaded",
		"driver", cfg.Storage.Driver,
		"planes", report.Planes,
		"flights", report.Flights,
		"passengers", report.Passengers,
		"droppedFlights", len(report.DroppedFlights),
		"cancelledBookings", len(report.CancelledBookings),
	)

	var watcher handlers.FlightWatcher
	if hub != nil {
		watcher = hub
	}
	h := handlers.NewHandler(airport, watcher, logger)
	r := router.NewRouter(h, m.Handler(), logger)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}
