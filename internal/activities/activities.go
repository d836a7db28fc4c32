package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// SeatBooker is the ledger surface the booking activities drive
type SeatBooker interface {
	CheckBooking(ctx context.Context, passengerID, flightID int, class models.SeatClass) error
	ReserveSeat(ctx context.Context, flightID int, class models.SeatClass) error
	ConfirmTicket(ctx context.Context, passengerID, flightID int, class models.SeatClass) (string, error)
	ReleaseSeat(ctx context.Context, flightID int, class models.SeatClass) error
}

// Activities holds the booking activities executed by the worker
type Activities struct {
	booker SeatBooker
}

func NewActivities(booker SeatBooker) *Activities {
	return &Activities{booker: booker}
}

// Register adds every activity to r under its shared name.
func (a *Activities) Register(r worker.ActivityRegistry) {
	r.RegisterActivityWithOptions(a.CheckBooking, activity.RegisterOptions{Name: models.ActivityCheckBooking})
	r.RegisterActivityWithOptions(a.ReserveSeat, activity.RegisterOptions{Name: models.ActivityReserveSeat})
	r.RegisterActivityWithOptions(a.ConfirmTicket, activity.RegisterOptions{Name: models.ActivityConfirmTicket})
	r.RegisterActivityWithOptions(a.ReleaseSeat, activity.RegisterOptions{Name: models.ActivityReleaseSeat})
}

// CheckBooking activity - rejects a request the ledgers would refuse
func (a *Activities) CheckBooking(ctx context.Context, input models.CheckBookingInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Checking booking", "passengerID", input.PassengerID, "flightID", input.FlightID, "class", input.SeatClass)

	if err := a.booker.CheckBooking(ctx, input.PassengerID, input.FlightID, input.SeatClass); err != nil {
		logger.Warn("Booking rejected", "passengerID", input.PassengerID, "error", err)
		return applicationError(err)
	}
	return nil
}

// ReserveSeat activity - takes one seat of the class on the flight
func (a *Activities) ReserveSeat(ctx context.Context, input models.ReserveSeatInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Reserving seat", "flightID", input.FlightID, "class", input.SeatClass)

	if err := a.booker.ReserveSeat(ctx, input.FlightID, input.SeatClass); err != nil {
		logger.Warn("Seat reservation failed", "flightID", input.FlightID, "error", err)
		return applicationError(err)
	}
	return nil
}

// ConfirmTicket activity - links the passenger to the reserved seat
func (a *Activities) ConfirmTicket(ctx context.Context, input models.ConfirmTicketInput) (*models.ConfirmTicketResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Confirming ticket", "passengerID", input.PassengerID, "flightID", input.FlightID)

	ref, err := a.booker.ConfirmTicket(ctx, input.PassengerID, input.FlightID, input.SeatClass)
	if err != nil {
		logger.Warn("Ticket confirmation failed", "passengerID", input.PassengerID, "error", err)
		return nil, applicationError(err)
	}

	logger.Info("Ticket confirmed", "passengerID", input.PassengerID, "bookingRef", ref)
	return &models.ConfirmTicketResult{BookingRef: ref}, nil
}

// ReleaseSeat activity - returns a reserved seat to the flight
func (a *Activities) ReleaseSeat(ctx context.Context, input models.ReleaseSeatInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Releasing seat", "flightID", input.FlightID, "class", input.SeatClass, "reason", input.Reason)

	if err := a.booker.ReleaseSeat(ctx, input.FlightID, input.SeatClass); err != nil {
		return applicationError(err)
	}
	return nil
}

// applicationError marks domain failures as non-retryable, typed by their
// error kind. Anything else is left to the retry policy.
func applicationError(err error) error {
	kind := models.KindOf(err)
	if kind == "" {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), nil)
}
