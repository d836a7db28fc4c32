// Package ledger owns the in-memory passenger, plane and flight collections,
// their id allocation and persistence, and the booking coordinator that keeps
// passenger tickets and flight seat inventory consistent.
//
// Every mutating operation persists the affected collection before it
// returns. If persisting fails the in-memory change is rolled back, so a
// ledger never holds state its backend has not accepted.
package ledger

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/repository"
)

// PassengerStore persists the passenger collection.
type PassengerStore interface {
	SavePassengers(ctx context.Context, passengers []*models.Passenger) error
	LoadPassengers(ctx context.Context) ([]*models.Passenger, error)
}

// PlaneStore persists the plane collection.
type PlaneStore interface {
	SavePlanes(ctx context.Context, planes []*models.Plane) error
	LoadPlanes(ctx context.Context) ([]*models.Plane, error)
}

// FlightStore persists the flight collection.
type FlightStore interface {
	SaveFlights(ctx context.Context, flights []*models.Flight) error
	LoadFlights(ctx context.Context, resolve repository.PlaneResolver) ([]*models.Flight, []int, error)
}

func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
