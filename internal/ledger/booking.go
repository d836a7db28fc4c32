package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// Coordinator applies operations that span the passenger and flight ledgers.
// Each one mutates both ledgers in memory, then persists both; if either save
// fails every in-memory change is undone and the collections that were
// already written are saved again, so passenger tickets and seat inventory
// never disagree.
type Coordinator struct {
	passengers *PassengerLedger
	flights    *FlightLedger
	newRef     func() string
	logger     *slog.Logger
}

func NewCoordinator(passengers *PassengerLedger, flights *FlightLedger, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		passengers: passengers,
		flights:    flights,
		newRef:     NewBookingRef,
		logger:     loggerOrDefault(logger),
	}
}

// NewBookingRef returns a fresh booking reference.
func NewBookingRef() string {
	return uuid.New().String()
}

// Check reports the error Book would fail with, without changing anything.
// The passenger is resolved first, then the flight, then the passenger's
// existing booking, then the seat.
func (c *Coordinator) Check(passengerID, flightID int, class models.SeatClass) error {
	if _, err := c.passengers.Get(passengerID); err != nil {
		return err
	}
	if _, err := c.flights.FindByID(flightID); err != nil {
		return err
	}
	if _, err := c.passengers.bookable(passengerID); err != nil {
		return err
	}
	return c.flights.checkSeat(flightID, class)
}

// Book reserves one seat of class on the flight for the passenger and
// confirms the passenger's ticket.
func (c *Coordinator) Book(ctx context.Context, passengerID, flightID int, class models.SeatClass) (*models.Passenger, error) {
	if err := c.Check(passengerID, flightID, class); err != nil {
		return nil, err
	}

	ref := c.newRef()
	undos := []func(){
		c.flights.takeSeat(flightID, class),
		c.passengers.assignBooking(passengerID, flightID, class, ref),
	}
	if err := c.commit(ctx, undos, c.flights.persist, c.passengers.persist); err != nil {
		return nil, err
	}

	c.logger.Info("Booking confirmed", "passengerID", passengerID, "flightID", flightID, "class", class, "bookingRef", ref)
	return c.passengers.Get(passengerID)
}

// Cancel releases the passenger's seat and marks the ticket cancelled.
func (c *Coordinator) Cancel(ctx context.Context, passengerID int) (*models.Passenger, error) {
	p, err := c.passengers.Get(passengerID)
	if err != nil {
		return nil, err
	}
	if !p.HasBooking() {
		return nil, fmt.Errorf("passenger %d: %w", passengerID, models.ErrNotBooked)
	}

	undos := []func(){c.passengers.clearBooking(passengerID)}
	if _, ok := c.flights.flights[*p.FlightID]; ok && p.SeatClass != nil {
		undos = append(undos, c.flights.giveSeat(*p.FlightID, *p.SeatClass))
	}
	if err := c.commit(ctx, undos, c.flights.persist, c.passengers.persist); err != nil {
		return nil, err
	}

	c.logger.Info("Booking cancelled", "passengerID", passengerID, "flightID", *p.FlightID)
	return c.passengers.Get(passengerID)
}

// RemovePassenger deletes a passenger, returning any booked seat to its flight.
func (c *Coordinator) RemovePassenger(ctx context.Context, passengerID int) error {
	p, err := c.passengers.Get(passengerID)
	if err != nil {
		return err
	}
	if !p.HasBooking() {
		return c.passengers.Remove(ctx, passengerID)
	}

	var undos []func()
	if _, ok := c.flights.flights[*p.FlightID]; ok && p.SeatClass != nil {
		undos = append(undos, c.flights.giveSeat(*p.FlightID, *p.SeatClass))
	}
	stored := c.passengers.passengers[passengerID]
	delete(c.passengers.passengers, passengerID)
	undos = append(undos, func() { c.passengers.passengers[passengerID] = stored })

	if err := c.commit(ctx, undos, c.flights.persist, c.passengers.persist); err != nil {
		return err
	}

	c.logger.Info("Passenger removed", "passengerID", passengerID, "releasedFlightID", *p.FlightID)
	return nil
}

// RemoveFlight deletes a flight and cancels the tickets of everyone booked on it.
func (c *Coordinator) RemoveFlight(ctx context.Context, flightID int) error {
	if _, err := c.flights.FindByID(flightID); err != nil {
		return err
	}
	booked := c.passengers.onFlight(flightID)
	if len(booked) == 0 {
		return c.flights.Remove(ctx, flightID)
	}

	undos := []func(){c.flights.delete(flightID)}
	for _, id := range booked {
		undos = append(undos, c.passengers.clearBooking(id))
	}
	if err := c.commit(ctx, undos, c.flights.persist, c.passengers.persist); err != nil {
		return err
	}

	c.logger.Info("Flight removed", "flightID", flightID, "cancelledBookings", len(booked))
	return nil
}

// RemovePlane deletes a plane that no flight uses. Flights must be removed
// first so their bookings are cancelled along with them.
func (c *Coordinator) RemovePlane(ctx context.Context, planeID int) error {
	if _, err := c.flights.planes.FindByID(planeID); err != nil {
		return err
	}
	if ids := c.flights.onPlane(planeID); len(ids) > 0 {
		return fmt.Errorf("plane %d flies flights %v: %w", planeID, ids, models.ErrPlaneInUse)
	}
	return c.flights.planes.Remove(ctx, planeID)
}

// ClearDanglingBookings cancels the tickets of passengers booked on flights
// the flight ledger does not hold, such as flights dropped on load. It
// returns the affected passenger ids.
func (c *Coordinator) ClearDanglingBookings(ctx context.Context) ([]int, error) {
	var ids []int
	var undos []func()
	for _, id := range sortedIDs(c.passengers.passengers) {
		p := c.passengers.passengers[id]
		if !p.HasBooking() {
			continue
		}
		if _, ok := c.flights.flights[*p.FlightID]; ok {
			continue
		}
		ids = append(ids, id)
		undos = append(undos, c.passengers.clearBooking(id))
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.commit(ctx, undos, c.passengers.persist); err != nil {
		return nil, err
	}

	c.logger.Warn("Cancelled bookings on unknown flights", "passengerIDs", ids)
	return ids, nil
}

// commit persists with each saver in order. On the first failure it undoes
// every in-memory change, newest first, and re-saves the collections that
// had already been written.
func (c *Coordinator) commit(ctx context.Context, undos []func(), savers ...func(context.Context) error) error {
	for i, save := range savers {
		err := save(ctx)
		if err == nil {
			continue
		}
		for j := len(undos) - 1; j >= 0; j-- {
			undos[j]()
		}
		for _, resave := range savers[:i] {
			if rerr := resave(ctx); rerr != nil {
				c.logger.Error("Failed to restore persisted state after rollback", "error", rerr)
			}
		}
		return err
	}
	return nil
}
