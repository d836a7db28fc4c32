package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

var (
	ErrCorrupt = errors.New("corrupt collection")
)

// PlaneResolver looks up an already-loaded plane by id.
type PlaneResolver func(id int) (*models.Plane, bool)

// flightRecord is the persisted form of a flight: the plane is stored by id
// and resolved against the plane registry on load.
type flightRecord struct {
	ID             int                      `json:"id"`
	Destination    string                   `json:"destination"`
	DepartureTime  time.Time                `json:"departureTime"`
	ArrivalTime    time.Time                `json:"arrivalTime"`
	PlaneID        int                      `json:"planeId"`
	Status         models.FlightStatus      `json:"status"`
	AvailableSeats map[models.SeatClass]int `json:"availableSeats"`
	Capacity       map[models.SeatClass]int `json:"capacity,omitempty"`
}

// Repository encodes ledger collections as JSON arrays over a storage backend
type Repository struct {
	backend storage.Backend
	logger  *slog.Logger
}

// NewRepository creates a new repository
func NewRepository(backend storage.Backend, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{backend: backend, logger: logger}
}

// --- Passenger Operations ---

// SavePassengers overwrites the passenger collection
func (r *Repository) SavePassengers(ctx context.Context, passengers []*models.Passenger) error {
	return save(ctx, r.backend, storage.CollectionPassengers, passengers)
}

// LoadPassengers returns the persisted passengers; a missing collection is empty
func (r *Repository) LoadPassengers(ctx context.Context) ([]*models.Passenger, error) {
	return load[*models.Passenger](ctx, r.backend, storage.CollectionPassengers)
}

// --- Plane Operations ---

// SavePlanes overwrites the plane collection
func (r *Repository) SavePlanes(ctx context.Context, planes []*models.Plane) error {
	return save(ctx, r.backend, storage.CollectionPlanes, planes)
}

// LoadPlanes returns the persisted planes with TotalSeats recomputed
func (r *Repository) LoadPlanes(ctx context.Context) ([]*models.Plane, error) {
	planes, err := load[*models.Plane](ctx, r.backend, storage.CollectionPlanes)
	if err != nil {
		return nil, err
	}
	for _, p := range planes {
		p.Recount()
	}
	return planes, nil
}

// --- Flight Operations ---

// SaveFlights overwrites the flight collection, storing each plane by id
func (r *Repository) SaveFlights(ctx context.Context, flights []*models.Flight) error {
	records := make([]flightRecord, 0, len(flights))
	for _, f := range flights {
		records = append(records, flightRecord{
			ID:             f.ID,
			Destination:    f.Destination,
			DepartureTime:  f.DepartureTime,
			ArrivalTime:    f.ArrivalTime,
			PlaneID:        f.PlaneID(),
			Status:         f.Status,
			AvailableSeats: f.AvailableSeats,
			Capacity:       f.Capacity,
		})
	}
	return save(ctx, r.backend, storage.CollectionFlights, records)
}

// LoadFlights returns the persisted flights with their planes resolved.
// Records whose plane cannot be resolved are dropped; their ids are returned
// in dropped and each one is logged.
func (r *Repository) LoadFlights(ctx context.Context, resolve PlaneResolver) (flights []*models.Flight, dropped []int, err error) {
	records, err := load[flightRecord](ctx, r.backend, storage.CollectionFlights)
	if err != nil {
		return nil, nil, err
	}

	flights = make([]*models.Flight, 0, len(records))
	for _, rec := range records {
		plane, ok := resolve(rec.PlaneID)
		if !ok {
			r.logger.Warn("Dropping flight with unknown plane", "flightID", rec.ID, "planeID", rec.PlaneID)
			dropped = append(dropped, rec.ID)
			continue
		}

		capacity := rec.Capacity
		if capacity == nil {
			capacity = plane.SeatMap()
		}
		available := make(map[models.SeatClass]int, len(rec.AvailableSeats))
		for class, n := range rec.AvailableSeats {
			available[class] = clamp(n, 0, capacity[class])
		}

		status := rec.Status
		if status == "" {
			status = models.FlightStatusScheduled
		}

		flights = append(flights, &models.Flight{
			ID:             rec.ID,
			Destination:    rec.Destination,
			DepartureTime:  rec.DepartureTime,
			ArrivalTime:    rec.ArrivalTime,
			Plane:          plane,
			Status:         status,
			AvailableSeats: available,
			Capacity:       capacity,
		})
	}
	return flights, dropped, nil
}

func save[T any](ctx context.Context, backend storage.Backend, collection string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	if err := backend.Write(ctx, collection, payload); err != nil {
		return fmt.Errorf("failed to persist %s: %w", collection, err)
	}
	return nil
}

func load[T any](ctx context.Context, backend storage.Backend, collection string) ([]T, error) {
	payload, err := backend.Read(ctx, collection)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}

	var records []T
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorrupt, collection, err)
	}
	return records, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
