package service

import (
	"context"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

func (a *Airport) ListPassengers(ctx context.Context) []*models.Passenger {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.passengers.List()
}

func (a *Airport) GetPassenger(ctx context.Context, id int) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.passengers.Get(id)
}

func (a *Airport) FindPassengers(ctx context.Context, by ledger.FindBy, value string) ([]*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.passengers.Find(by, value)
}

func (a *Airport) AddPassenger(ctx context.Context, in ledger.AddPassengerInput) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("add_passenger", err)
	}
	p, err := a.passengers.Add(ctx, in)
	if err != nil {
		return nil, a.observe("add_passenger", err)
	}
	a.observe("add_passenger", nil)
	a.metrics.SetRecords(storage.CollectionPassengers, len(a.passengers.List()))
	return p, nil
}

// UpdatePassenger changes one field and returns the updated passenger
func (a *Airport) UpdatePassenger(ctx context.Context, id int, field, value string) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("update_passenger", err)
	}
	if err := a.passengers.Update(ctx, id, field, value); err != nil {
		return nil, a.observe("update_passenger", err)
	}
	a.observe("update_passenger", nil)
	return a.passengers.Get(id)
}

// RemovePassenger deletes the passenger and returns a booked seat to its flight
func (a *Airport) RemovePassenger(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("remove_passenger", err)
	}
	p, err := a.passengers.Get(id)
	if err != nil {
		return a.observe("remove_passenger", err)
	}
	if err := a.coordinator.RemovePassenger(ctx, id); err != nil {
		return a.observe("remove_passenger", err)
	}
	a.observe("remove_passenger", nil)
	a.metrics.SetRecords(storage.CollectionPassengers, len(a.passengers.List()))
	if p.HasBooking() {
		a.flightChanged(*p.FlightID)
	}
	return nil
}

// CheckIn validates baggage and checks the passenger in
func (a *Airport) CheckIn(ctx context.Context, id int, baggageWeight float64, dims [3]float64) (*models.Passenger, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("check_in", err)
	}
	if err := a.passengers.CheckIn(ctx, id, baggageWeight, dims); err != nil {
		return nil, a.observe("check_in", err)
	}
	a.observe("check_in", nil)
	return a.passengers.Get(id)
}
