package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// Saga runs a booking as a durable workflow
type Saga interface {
	Book(ctx context.Context, in models.BookingWorkflowInput) (*models.BookingWorkflowResult, error)
}

// TemporalSaga starts BookingWorkflow on a Temporal cluster and waits for it
type TemporalSaga struct {
	client    client.Client
	taskQueue string
}

// NewTemporalSaga creates a saga runner. An empty taskQueue selects the default queue.
func NewTemporalSaga(c client.Client, taskQueue string) *TemporalSaga {
	if taskQueue == "" {
		taskQueue = models.BookingTaskQueue
	}
	return &TemporalSaga{client: c, taskQueue: taskQueue}
}

func (s *TemporalSaga) Book(ctx context.Context, in models.BookingWorkflowInput) (*models.BookingWorkflowResult, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("booking-%d-%s", in.PassengerID, uuid.New().String()[:8]),
		TaskQueue: s.taskQueue,
	}

	run, err := s.client.ExecuteWorkflow(ctx, workflowOptions, models.BookingWorkflowName, in)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	var result models.BookingWorkflowResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, fmt.Errorf("booking workflow %s failed: %w", run.GetID(), err)
	}
	return &result, nil
}

// Book reserves a seat for the passenger. Both the passenger's ticket and
// the flight's inventory change, or neither does.
func (a *Airport) Book(ctx context.Context, passengerID, flightID int, class models.SeatClass) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.saga != nil {
		p, err := a.bookViaSaga(ctx, passengerID, flightID, class)
		return p, a.observe("book", err)
	}

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("book", err)
	}
	p, err := a.coordinator.Book(ctx, passengerID, flightID, class)
	if err != nil {
		return nil, a.observe("book", err)
	}
	a.observe("book", nil)
	a.flightChanged(flightID)
	return p, nil
}

// bookViaSaga runs the workflow, then reloads the state the worker wrote.
// The caller holds a.mu.
func (a *Airport) bookViaSaga(ctx context.Context, passengerID, flightID int, class models.SeatClass) (*models.Passenger, error) {
	result, err := a.saga.Book(ctx, models.BookingWorkflowInput{
		PassengerID: passengerID,
		FlightID:    flightID,
		SeatClass:   class,
	})
	if err != nil {
		return nil, err
	}
	if err := a.reload(ctx); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, sagaFailure(result)
	}
	a.flightChanged(flightID)
	return a.passengers.Get(passengerID)
}

// sagaFailure rebuilds a typed error from a failed workflow result.
func sagaFailure(result *models.BookingWorkflowResult) error {
	kind := models.ErrorKind(result.FailureKind)
	if kind == "" {
		return fmt.Errorf("booking workflow failed: %s", result.FailureReason)
	}
	return &models.Error{Kind: kind, Message: result.FailureReason}
}

// CancelBooking releases the passenger's seat and cancels the ticket
func (a *Airport) CancelBooking(ctx context.Context, passengerID int) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("cancel_booking", err)
	}
	before, err := a.passengers.Get(passengerID)
	if err != nil {
		return nil, a.observe("cancel_booking", err)
	}
	p, err := a.coordinator.Cancel(ctx, passengerID)
	if err != nil {
		return nil, a.observe("cancel_booking", err)
	}
	a.observe("cancel_booking", nil)
	a.flightChanged(*before.FlightID)
	return p, nil
}

// CheckBooking validates a booking request in the order Book does, without
// changing anything. It is the first step of the booking workflow, so a
// missing or already booked passenger is reported before any seat is taken.
func (a *Airport) CheckBooking(ctx context.Context, passengerID, flightID int, class models.SeatClass) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("check_booking", err)
	}
	return a.observe("check_booking", a.coordinator.Check(passengerID, flightID, class))
}

// ReserveSeat takes one seat of the class on the flight once the request
// has been checked.
func (a *Airport) ReserveSeat(ctx context.Context, flightID int, class models.SeatClass) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("reserve_seat", err)
	}
	if err := a.flights.BookSeat(ctx, flightID, class); err != nil {
		return a.observe("reserve_seat", err)
	}
	a.observe("reserve_seat", nil)
	a.flightChanged(flightID)
	return nil
}

// ConfirmTicket links the passenger to a flight whose seat was already
// reserved, returning the new booking reference.
func (a *Airport) ConfirmTicket(ctx context.Context, passengerID, flightID int, class models.SeatClass) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return "", a.observe("confirm_ticket", err)
	}
	if _, err := a.flights.FindByID(flightID); err != nil {
		return "", a.observe("confirm_ticket", err)
	}
	ref := ledger.NewBookingRef()
	if err := a.passengers.AssignBooking(ctx, passengerID, flightID, class, ref); err != nil {
		return "", a.observe("confirm_ticket", err)
	}
	a.observe("confirm_ticket", nil)
	return ref, nil
}

// ReleaseSeat returns one seat of the class to the flight. It compensates a
// reservation whose ticket could not be confirmed.
func (a *Airport) ReleaseSeat(ctx context.Context, flightID int, class models.SeatClass) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("release_seat", err)
	}
	if err := a.flights.ReleaseSeat(ctx, flightID, class); err != nil {
		return a.observe("release_seat", err)
	}
	a.observe("release_seat", nil)
	a.flightChanged(flightID)
	return nil
}
