package service

import (
	"context"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

func (a *Airport) ListFlights(ctx context.Context) []*models.Flight {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flights.List()
}

func (a *Airport) GetFlight(ctx context.Context, id int) (*models.Flight, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flights.FindByID(id)
}

func (a *Airport) AddFlight(ctx context.Context, in ledger.AddFlightInput) (*models.Flight, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("add_flight", err)
	}
	f, err := a.flights.Add(ctx, in)
	if err != nil {
		return nil, a.observe("add_flight", err)
	}
	a.observe("add_flight", nil)
	a.flightChanged(f.ID)
	return f, nil
}

// UpdateFlightStatus sets the status and returns the updated flight
func (a *Airport) UpdateFlightStatus(ctx context.Context, id int, status models.FlightStatus) (*models.Flight, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("update_flight_status", err)
	}
	if err := a.flights.UpdateStatus(ctx, id, status); err != nil {
		return nil, a.observe("update_flight_status", err)
	}
	a.observe("update_flight_status", nil)
	a.flightChanged(id)
	return a.flights.FindByID(id)
}

// RemoveFlight deletes the flight and cancels every booking on it
func (a *Airport) RemoveFlight(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("remove_flight", err)
	}
	if err := a.coordinator.RemoveFlight(ctx, id); err != nil {
		return a.observe("remove_flight", err)
	}
	a.observe("remove_flight", nil)
	a.flightRemoved(id)
	return nil
}
