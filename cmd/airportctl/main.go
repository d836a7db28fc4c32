// Command airportctl edits the airport records directly in the configured
// storage backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/cx-tal-miterani/airport-operations/internal/config"
	"github.com/cx-tal-miterani/airport-operations/internal/service"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run loads the records, executes one command and reports its failure on
// errOut. The returned error only signals the exit status.
func run(ctx context.Context, args []string, out, errOut io.Writer) error {
	flags := pflag.NewFlagSet("airportctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(errOut)
	configPath := flags.String("config", os.Getenv("AIRPORT_CONFIG"), "path to the YAML config file")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(errOut, "airportctl: %v\n", err)
		return err
	}
	// Ledger logs go to stderr so command output stays clean.
	logger := cfg.NewLogger(errOut)

	airport, report, err := service.Open(ctx, cfg.StorageOptions(), service.Options{Logger: logger})
	if err != nil {
		fmt.Fprintf(errOut, "airportctl: %v\n", err)
		return err
	}
	defer airport.Close()
	if len(report.DroppedFlights) > 0 {
		fmt.Fprintf(errOut, "warning: dropped %d flights whose plane no longer exists: %v\n", len(report.DroppedFlights), report.DroppedFlights)
	}
	if len(report.CancelledBookings) > 0 {
		fmt.Fprintf(errOut, "warning: cancelled bookings of passengers %v on flights that no longer exist\n", report.CancelledBookings)
	}

	return execute(ctx, &app{airport: airport, out: out}, flags.Args(), errOut)
}

func execute(ctx context.Context, a *app, args []string, errOut io.Writer) error {
	if err := newRoot(a).Execute(ctx, a.out, args); err != nil {
		printError(errOut, err)
		return err
	}
	return nil
}
