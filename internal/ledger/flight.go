package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// AddFlightInput carries the fields of a new flight
type AddFlightInput struct {
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	PlaneID       int       `json:"planeId"`
}

// FlightLedger stores flights keyed by id. Planes are resolved through the
// registry both when a flight is added and when the ledger is loaded.
type FlightLedger struct {
	flights map[int]*models.Flight
	nextID  int
	planes  *PlaneRegistry
	store   FlightStore
	logger  *slog.Logger
}

func NewFlightLedger(planes *PlaneRegistry, store FlightStore, logger *slog.Logger) *FlightLedger {
	return &FlightLedger{
		flights: make(map[int]*models.Flight),
		nextID:  1,
		planes:  planes,
		store:   store,
		logger:  loggerOrDefault(logger),
	}
}

// Load replaces the ledger contents with the persisted collection. The plane
// registry must already be loaded. Flights whose plane is unknown are
// dropped; their ids are returned. The id counter still accounts for them so
// a dropped id is never reissued.
func (l *FlightLedger) Load(ctx context.Context) (dropped []int) {
	l.flights = make(map[int]*models.Flight)
	l.nextID = 1
	dropped, err := l.Refresh(ctx)
	if err != nil {
		l.logger.Warn("Starting with empty flight ledger", "error", err)
		return nil
	}
	return dropped
}

// Refresh re-reads the persisted collection like Load. On error the current
// contents are kept.
func (l *FlightLedger) Refresh(ctx context.Context) (dropped []int, err error) {
	flights, dropped, err := l.store.LoadFlights(ctx, l.planes.resolve)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Flight, len(flights))
	nextID := 1
	for _, f := range flights {
		byID[f.ID] = f
		if f.ID >= nextID {
			nextID = f.ID + 1
		}
	}
	for _, id := range dropped {
		if id >= nextID {
			nextID = id + 1
		}
	}
	l.flights = byID
	l.nextID = nextID
	l.logger.Info("Flight ledger loaded", "count", len(l.flights), "dropped", len(dropped), "nextID", l.nextID)
	return dropped, nil
}

// NextID returns the id the next Add will assign.
func (l *FlightLedger) NextID() int { return l.nextID }

// Add schedules a flight on a plane, snapshotting the plane's class seat
// counts as the flight's seat inventory
func (l *FlightLedger) Add(ctx context.Context, in AddFlightInput) (*models.Flight, error) {
	dest := strings.TrimSpace(in.Destination)
	if dest == "" {
		return nil, models.ErrInvalidDest
	}
	if in.ArrivalTime.Before(in.DepartureTime) {
		return nil, models.ErrInvalidSchedule
	}
	plane, ok := l.planes.resolve(in.PlaneID)
	if !ok {
		return nil, models.PlaneNotFound(in.PlaneID)
	}

	f := &models.Flight{
		ID:             l.nextID,
		Destination:    dest,
		DepartureTime:  in.DepartureTime,
		ArrivalTime:    in.ArrivalTime,
		Plane:          plane,
		Status:         models.FlightStatusScheduled,
		AvailableSeats: plane.SeatMap(),
		Capacity:       plane.SeatMap(),
	}
	l.flights[f.ID] = f
	l.nextID++

	if err := l.persist(ctx); err != nil {
		delete(l.flights, f.ID)
		l.nextID--
		return nil, err
	}

	l.logger.Info("Flight added", "flightID", f.ID, "destination", f.Destination, "planeID", plane.ID)
	return f.Clone(), nil
}

// UpdateStatus sets the flight status
func (l *FlightLedger) UpdateStatus(ctx context.Context, id int, status models.FlightStatus) error {
	f, ok := l.flights[id]
	if !ok {
		return models.FlightNotFound(id)
	}
	if _, err := models.ParseFlightStatus(string(status)); err != nil {
		return err
	}
	before := f.Status
	f.Status = status

	if err := l.persist(ctx); err != nil {
		f.Status = before
		return err
	}

	l.logger.Info("Flight status updated", "flightID", id, "status", status)
	return nil
}

// Remove deletes a flight
func (l *FlightLedger) Remove(ctx context.Context, id int) error {
	if _, ok := l.flights[id]; !ok {
		return models.FlightNotFound(id)
	}
	undo := l.delete(id)

	if err := l.persist(ctx); err != nil {
		undo()
		return err
	}

	l.logger.Info("Flight removed", "flightID", id)
	return nil
}

// FindByID returns a copy of the flight
func (l *FlightLedger) FindByID(id int) (*models.Flight, error) {
	f, ok := l.flights[id]
	if !ok {
		return nil, models.FlightNotFound(id)
	}
	return f.Clone(), nil
}

// List returns copies of all flights ordered by id
func (l *FlightLedger) List() []*models.Flight {
	out := make([]*models.Flight, 0, len(l.flights))
	for _, id := range sortedIDs(l.flights) {
		out = append(out, l.flights[id].Clone())
	}
	return out
}

// BookSeat takes one seat of the class
func (l *FlightLedger) BookSeat(ctx context.Context, id int, class models.SeatClass) error {
	if err := l.checkSeat(id, class); err != nil {
		return err
	}
	undo := l.takeSeat(id, class)

	if err := l.persist(ctx); err != nil {
		undo()
		return err
	}
	return nil
}

// ReleaseSeat returns one seat of the class, never exceeding the capacity
// snapshot taken when the flight was added.
func (l *FlightLedger) ReleaseSeat(ctx context.Context, id int, class models.SeatClass) error {
	f, ok := l.flights[id]
	if !ok {
		return models.FlightNotFound(id)
	}
	if _, known := f.Capacity[class]; !known {
		return fmt.Errorf("%w %q", models.ErrInvalidSeatClass, class)
	}
	undo := l.giveSeat(id, class)

	if err := l.persist(ctx); err != nil {
		undo()
		return err
	}
	return nil
}

// checkSeat verifies the flight exists, is not canceled, knows the class and
// has a seat left in it.
func (l *FlightLedger) checkSeat(id int, class models.SeatClass) error {
	f, ok := l.flights[id]
	if !ok {
		return models.FlightNotFound(id)
	}
	if f.Status == models.FlightStatusCanceled {
		return fmt.Errorf("flight %d: %w", id, models.ErrFlightCanceled)
	}
	remaining, known := f.AvailableSeats[class]
	if !known {
		return fmt.Errorf("%w %q", models.ErrInvalidSeatClass, class)
	}
	if remaining <= 0 {
		return fmt.Errorf("flight %d %s: %w", id, class, models.ErrNoSeats)
	}
	return nil
}

func (l *FlightLedger) takeSeat(id int, class models.SeatClass) (undo func()) {
	f := l.flights[id]
	f.AvailableSeats[class]--
	return func() { f.AvailableSeats[class]++ }
}

func (l *FlightLedger) giveSeat(id int, class models.SeatClass) (undo func()) {
	f := l.flights[id]
	if f.AvailableSeats[class] >= f.Capacity[class] {
		return func() {}
	}
	f.AvailableSeats[class]++
	return func() { f.AvailableSeats[class]-- }
}

func (l *FlightLedger) delete(id int) (undo func()) {
	f := l.flights[id]
	delete(l.flights, id)
	return func() { l.flights[id] = f }
}

// onPlane returns the ids of flights flown by the plane.
func (l *FlightLedger) onPlane(planeID int) []int {
	var ids []int
	for _, id := range sortedIDs(l.flights) {
		if l.flights[id].PlaneID() == planeID {
			ids = append(ids, id)
		}
	}
	return ids
}

func (l *FlightLedger) persist(ctx context.Context) error {
	out := make([]*models.Flight, 0, len(l.flights))
	for _, id := range sortedIDs(l.flights) {
		out = append(out, l.flights[id])
	}
	if err := l.store.SaveFlights(ctx, out); err != nil {
		l.logger.Error("Failed to persist flights", "error", err)
		return err
	}
	return nil
}
