package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/service"
)

// app carries what every leaf command needs
type app struct {
	airport service.AirportService
	out     io.Writer
}

func newRoot(a *app) *Command {
	return &Command{
		Name:    "airportctl",
		Summary: "Manage airport passengers, planes, flights and bookings.",
		Subcommands: []*Command{
			a.passengerCommand(),
			a.planeCommand(),
			a.flightCommand(),
			{
				Name:    "book",
				Summary: "Book a seat for a passenger",
				Usage:   "<passenger-id> <flight-id> <class>",
				Run:     a.book,
			},
			{
				Name:    "cancel",
				Summary: "Cancel a passenger's booking",
				Usage:   "<passenger-id>",
				Run:     a.cancel,
			},
		},
	}
}

func invalid(format string, args ...interface{}) error {
	return &models.Error{Kind: models.KindValidation, Message: fmt.Sprintf(format, args...)}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, invalid("id must be a positive integer, got %q", s)
	}
	return id, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, timeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, invalid("time must look like %q, got %q", timeLayout, s)
}

// --- passengers ---

func (a *app) passengerCommand() *Command {
	return &Command{
		Name:    "passenger",
		Summary: "Manage passengers",
		Subcommands: []*Command{
			{
				Name:    "add",
				Summary: "Register a passenger",
				Flags: func() *pflag.FlagSet {
					fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
					fs.String("name", "", "full name")
					fs.Int("age", 0, "age in years")
					fs.String("gender", "", "M, F or O")
					fs.String("nationality", "", "nationality")
					fs.String("passport", "", "8 or 9 digit passport number")
					return fs
				},
				Run: a.addPassenger,
			},
			{Name: "list", Summary: "List passengers", Run: a.listPassengers},
			{
				Name:    "find",
				Summary: "Find passengers by id, name or passport",
				Usage:   "<id|name|passport> <value>",
				Run:     a.findPassengers,
			},
			{
				Name:    "update",
				Summary: "Change one passenger field (name, age, gender, nationality, passport, status)",
				Usage:   "<id> <field> <value>",
				Run:     a.updatePassenger,
			},
			{Name: "remove", Summary: "Remove a passenger", Usage: "<id>", Run: a.removePassenger},
			{
				Name:    "checkin",
				Summary: "Check in a passenger with their baggage",
				Usage:   "<id>",
				Flags: func() *pflag.FlagSet {
					fs := pflag.NewFlagSet("checkin", pflag.ContinueOnError)
					fs.Float64("weight", 0, "baggage weight in kg")
					fs.Float64Slice("dims", nil, "baggage length,width,height in cm")
					return fs
				},
				Run: a.checkIn,
			},
		},
	}
}

func (a *app) addPassenger(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
	name, _ := flags.GetString("name")
	age, _ := flags.GetInt("age")
	gender, _ := flags.GetString("gender")
	nationality, _ := flags.GetString("nationality")
	passport, _ := flags.GetString("passport")

	p, err := a.airport.AddPassenger(ctx, ledger.AddPassengerInput{
		Name:           name,
		Age:            age,
		Gender:         gender,
		Nationality:    nationality,
		PassportNumber: passport,
	})
	if err != nil {
		return err
	}
	printOK(a.out, "Passenger %d added", p.ID)
	return nil
}

func (a *app) listPassengers(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	renderPassengers(a.out, a.airport.ListPassengers(ctx))
	return nil
}

func (a *app) findPassengers(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: expected <id|name|passport> <value>", errUsage)
	}
	found, err := a.airport.FindPassengers(ctx, ledger.FindBy(args[0]), strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	renderPassengers(a.out, found)
	return nil
}

func (a *app) updatePassenger(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: expected <id> <field> <value>", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.airport.UpdatePassenger(ctx, id, args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	renderPassengers(a.out, []*models.Passenger{p})
	return nil
}

func (a *app) removePassenger(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 1, "<id>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.airport.RemovePassenger(ctx, id); err != nil {
		return err
	}
	printOK(a.out, "Passenger %d removed", id)
	return nil
}

func (a *app) checkIn(ctx context.Context, flags *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 1, "<id>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	weight, _ := flags.GetFloat64("weight")
	dimList, _ := flags.GetFloat64Slice("dims")
	if len(dimList) != 3 {
		return fmt.Errorf("%w: --dims takes exactly three values", models.ErrInvalidBaggage)
	}
	p, err := a.airport.CheckIn(ctx, id, weight, [3]float64{dimList[0], dimList[1], dimList[2]})
	if err != nil {
		return err
	}
	printOK(a.out, "Passenger %d checked in with %.1fkg", p.ID, p.BaggageWeight)
	return nil
}

// --- planes ---

func (a *app) planeCommand() *Command {
	return &Command{
		Name:    "plane",
		Summary: "Manage planes",
		Subcommands: []*Command{
			{
				Name:    "add",
				Summary: "Register a plane",
				Flags: func() *pflag.FlagSet {
					fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
					fs.String("model", "", "plane model")
					fs.Int("executive", 0, "executive seats")
					fs.Int("business", 0, "business seats")
					fs.Int("economy", 0, "economy seats")
					return fs
				},
				Run: a.addPlane,
			},
			{Name: "list", Summary: "List planes", Run: a.listPlanes},
			{
				Name:    "update",
				Summary: "Change one plane field (model, executive, business, economy)",
				Usage:   "<id> <field> <value>",
				Run:     a.updatePlane,
			},
			{Name: "remove", Summary: "Remove a plane", Usage: "<id>", Run: a.removePlane},
			{Name: "fleet", Summary: "Count planes per fleet type", Run: a.fleet},
		},
	}
}

func (a *app) addPlane(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
	model, _ := flags.GetString("model")
	executive, _ := flags.GetInt("executive")
	business, _ := flags.GetInt("business")
	economy, _ := flags.GetInt("economy")

	p, err := a.airport.AddPlane(ctx, ledger.AddPlaneInput{
		Model:          model,
		ExecutiveSeats: executive,
		BusinessSeats:  business,
		EconomySeats:   economy,
	})
	if err != nil {
		return err
	}
	printOK(a.out, "Plane %d added with %d seats", p.ID, p.TotalSeats)
	return nil
}

func (a *app) listPlanes(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	renderPlanes(a.out, a.airport.ListPlanes(ctx))
	return nil
}

func (a *app) updatePlane(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 3, "<id> <field> <value>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p, err := a.airport.UpdatePlane(ctx, id, args[1], args[2])
	if err != nil {
		return err
	}
	renderPlanes(a.out, []*models.Plane{p})
	return nil
}

func (a *app) removePlane(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 1, "<id>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.airport.RemovePlane(ctx, id); err != nil {
		return err
	}
	printOK(a.out, "Plane %d removed", id)
	return nil
}

func (a *app) fleet(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	renderFleet(a.out, a.airport.FleetTypes(ctx))
	return nil
}

// --- flights ---

func (a *app) flightCommand() *Command {
	return &Command{
		Name:    "flight",
		Summary: "Manage flights",
		Subcommands: []*Command{
			{
				Name:    "add",
				Summary: "Schedule a flight",
				Flags: func() *pflag.FlagSet {
					fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
					fs.String("destination", "", "destination")
					fs.String("departure", "", "departure time, "+timeLayout+" (UTC)")
					fs.String("arrival", "", "arrival time, "+timeLayout+" (UTC)")
					fs.Int("plane", 0, "plane id")
					return fs
				},
				Run: a.addFlight,
			},
			{Name: "list", Summary: "List flights", Run: a.listFlights},
			{
				Name:    "status",
				Summary: "Set a flight status (Scheduled, On-Time, Delayed, Canceled)",
				Usage:   "<id> <status>",
				Run:     a.flightStatus,
			},
			{Name: "remove", Summary: "Remove a flight and cancel its bookings", Usage: "<id>", Run: a.removeFlight},
		},
	}
}

func (a *app) addFlight(ctx context.Context, flags *pflag.FlagSet, _ []string) error {
	destination, _ := flags.GetString("destination")
	departureText, _ := flags.GetString("departure")
	arrivalText, _ := flags.GetString("arrival")
	planeID, _ := flags.GetInt("plane")

	departure, err := parseTime(departureText)
	if err != nil {
		return err
	}
	arrival, err := parseTime(arrivalText)
	if err != nil {
		return err
	}
	f, err := a.airport.AddFlight(ctx, ledger.AddFlightInput{
		Destination:   destination,
		DepartureTime: departure,
		ArrivalTime:   arrival,
		PlaneID:       planeID,
	})
	if err != nil {
		return err
	}
	printOK(a.out, "Flight %d to %s scheduled", f.ID, f.Destination)
	return nil
}

func (a *app) listFlights(ctx context.Context, _ *pflag.FlagSet, _ []string) error {
	renderFlights(a.out, a.airport.ListFlights(ctx))
	return nil
}

func (a *app) flightStatus(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: expected <id> <status>", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	st, err := models.ParseFlightStatus(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	f, err := a.airport.UpdateFlightStatus(ctx, id, st)
	if err != nil {
		return err
	}
	renderFlights(a.out, []*models.Flight{f})
	return nil
}

func (a *app) removeFlight(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 1, "<id>"); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.airport.RemoveFlight(ctx, id); err != nil {
		return err
	}
	printOK(a.out, "Flight %d removed", id)
	return nil
}

// --- bookings ---

func (a *app) book(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 3, "<passenger-id> <flight-id> <class>"); err != nil {
		return err
	}
	passengerID, err := parseID(args[0])
	if err != nil {
		return err
	}
	flightID, err := parseID(args[1])
	if err != nil {
		return err
	}
	class, err := models.ParseSeatClass(args[2])
	if err != nil {
		return err
	}
	p, err := a.airport.Book(ctx, passengerID, flightID, class)
	if err != nil {
		return err
	}
	printOK(a.out, "Passenger %d booked on flight %d (%s), ref %s", p.ID, flightID, class, p.BookingRef)
	return nil
}

func (a *app) cancel(ctx context.Context, _ *pflag.FlagSet, args []string) error {
	if err := requireArgs(args, 1, "<passenger-id>"); err != nil {
		return err
	}
	passengerID, err := parseID(args[0])
	if err != nil {
		return err
	}
	if _, err := a.airport.CancelBooking(ctx, passengerID); err != nil {
		return err
	}
	printOK(a.out, "Booking of passenger %d cancelled", passengerID)
	return nil
}
