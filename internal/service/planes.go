package service

import (
	"context"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

func (a *Airport) ListPlanes(ctx context.Context) []*models.Plane {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planes.List()
}

func (a *Airport) GetPlane(ctx context.Context, id int) (*models.Plane, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planes.FindByID(id)
}

func (a *Airport) AddPlane(ctx context.Context, in ledger.AddPlaneInput) (*models.Plane, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("add_plane", err)
	}
	p, err := a.planes.Create(ctx, in)
	if err != nil {
		return nil, a.observe("add_plane", err)
	}
	a.observe("add_plane", nil)
	a.metrics.SetRecords(storage.CollectionPlanes, len(a.planes.List()))
	return p, nil
}

// UpdatePlane changes the model or one class seat count. Existing flights
// keep the seat inventory they were created with.
func (a *Airport) UpdatePlane(ctx context.Context, id int, field, value string) (*models.Plane, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return nil, a.observe("update_plane", err)
	}
	if err := a.planes.Update(ctx, id, field, value); err != nil {
		return nil, a.observe("update_plane", err)
	}
	a.observe("update_plane", nil)
	return a.planes.FindByID(id)
}

// RemovePlane deletes a plane. A plane that still flies flights is refused
// with a conflict; remove those flights first.
func (a *Airport) RemovePlane(ctx context.Context, id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.sync(ctx); err != nil {
		return a.observe("remove_plane", err)
	}
	if err := a.coordinator.RemovePlane(ctx, id); err != nil {
		return a.observe("remove_plane", err)
	}
	a.observe("remove_plane", nil)
	a.metrics.SetRecords(storage.CollectionPlanes, len(a.planes.List()))
	return nil
}

// FleetTypes returns the fleet-type counter snapshot
func (a *Airport) FleetTypes(ctx context.Context) []models.FleetTypeCount {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.planes.FleetTypes()
}
