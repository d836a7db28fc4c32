package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

const (
	// ActivityTimeout bounds a single ledger activity
	ActivityTimeout = 30 * time.Second
	// MaxActivityAttempts applies to infrastructure failures only; domain
	// failures are non-retryable
	MaxActivityAttempts = 3
)

// BookingWorkflow checks the request, reserves a seat, then confirms the
// passenger's ticket.
// When the ticket cannot be confirmed the seat is released again, so the
// flight inventory and the passenger ledger change together or not at all.
func BookingWorkflow(ctx workflow.Context, input models.BookingWorkflowInput) (*models.BookingWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Booking workflow started", "passengerId", input.PassengerID, "flightId", input.FlightID, "class", input.SeatClass)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: ActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    MaxActivityAttempts,
		},
	})

	err := workflow.ExecuteActivity(ctx, models.ActivityCheckBooking, models.CheckBookingInput{
		PassengerID: input.PassengerID,
		FlightID:    input.FlightID,
		SeatClass:   input.SeatClass,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Booking rejected", "error", err)
		return failed(err), nil
	}

	err = workflow.ExecuteActivity(ctx, models.ActivityReserveSeat, models.ReserveSeatInput{
		FlightID:  input.FlightID,
		SeatClass: input.SeatClass,
	}).Get(ctx, nil)
	if err != nil {
		logger.Warn("Seat reservation failed", "error", err)
		return failed(err), nil
	}

	var confirm models.ConfirmTicketResult
	err = workflow.ExecuteActivity(ctx, models.ActivityConfirmTicket, models.ConfirmTicketInput{
		PassengerID: input.PassengerID,
		FlightID:    input.FlightID,
		SeatClass:   input.SeatClass,
	}).Get(ctx, &confirm)
	if err != nil {
		logger.Warn("Ticket confirmation failed, releasing seat", "error", err)
		releaseErr := workflow.ExecuteActivity(ctx, models.ActivityReleaseSeat, models.ReleaseSeatInput{
			FlightID:  input.FlightID,
			SeatClass: input.SeatClass,
			Reason:    "ticket not confirmed",
		}).Get(ctx, nil)
		if releaseErr != nil {
			// The seat stays taken; surface this as a workflow failure.
			return nil, fmt.Errorf("failed to release seat on flight %d after %v: %w", input.FlightID, err, releaseErr)
		}
		return failed(err), nil
	}

	logger.Info("Booking confirmed", "passengerId", input.PassengerID, "bookingRef", confirm.BookingRef)
	return &models.BookingWorkflowResult{Success: true, BookingRef: confirm.BookingRef}, nil
}

// failed converts an activity error into a workflow result. Typed
// application errors carry their error kind.
func failed(err error) *models.BookingWorkflowResult {
	result := &models.BookingWorkflowResult{FailureReason: err.Error()}
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		result.FailureKind = appErr.Type()
		result.FailureReason = appErr.Error()
	}
	return result
}
