package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// AddPlaneInput carries the configuration of a new plane
type AddPlaneInput struct {
	Model          string `json:"model"`
	ExecutiveSeats int    `json:"executiveSeats"`
	BusinessSeats  int    `json:"businessSeats"`
	EconomySeats   int    `json:"economySeats"`
}

// Updatable plane fields.
const (
	FieldModel     = "model"
	FieldExecutive = "executive"
	FieldBusiness  = "business"
	FieldEconomy   = "economy"
)

// PlaneRegistry stores planes keyed by id together with the fleet-type
// counter. Both structures only change inside the registry's own methods,
// and every method that touches membership adjusts the counter in the same
// step.
type PlaneRegistry struct {
	planes map[int]*models.Plane
	fleet  map[models.FleetType]int
	nextID int
	store  PlaneStore
	logger *slog.Logger
}

func NewPlaneRegistry(store PlaneStore, logger *slog.Logger) *PlaneRegistry {
	return &PlaneRegistry{
		planes: make(map[int]*models.Plane),
		fleet:  make(map[models.FleetType]int),
		nextID: 1,
		store:  store,
		logger: loggerOrDefault(logger),
	}
}

// Load replaces the registry contents with the persisted collection and
// rebuilds the fleet-type counter from it.
func (r *PlaneRegistry) Load(ctx context.Context) {
	r.planes = make(map[int]*models.Plane)
	r.fleet = make(map[models.FleetType]int)
	r.nextID = 1
	if err := r.Refresh(ctx); err != nil {
		r.logger.Warn("Starting with empty plane registry", "error", err)
	}
}

// Refresh re-reads the persisted collection. On error the current contents
// are kept. Flights resolved against the previous contents must be reloaded.
func (r *PlaneRegistry) Refresh(ctx context.Context) error {
	planes, err := r.store.LoadPlanes(ctx)
	if err != nil {
		return err
	}

	r.planes = make(map[int]*models.Plane, len(planes))
	r.fleet = make(map[models.FleetType]int)
	r.nextID = 1
	for _, p := range planes {
		if p == nil {
			continue
		}
		r.insert(p)
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	r.logger.Info("Plane registry loaded", "count", len(r.planes), "fleetTypes", len(r.fleet))
	return nil
}

// NextID returns the id the next Create will assign.
func (r *PlaneRegistry) NextID() int { return r.nextID }

// Create registers a new plane
func (r *PlaneRegistry) Create(ctx context.Context, in AddPlaneInput) (*models.Plane, error) {
	model := strings.TrimSpace(in.Model)
	if model == "" {
		return nil, models.ErrInvalidModel
	}
	if in.ExecutiveSeats < 0 || in.BusinessSeats < 0 || in.EconomySeats < 0 {
		return nil, models.ErrInvalidSeatCount
	}

	p := &models.Plane{
		ID:             r.nextID,
		Model:          model,
		ExecutiveSeats: in.ExecutiveSeats,
		BusinessSeats:  in.BusinessSeats,
		EconomySeats:   in.EconomySeats,
	}
	p.Recount()
	r.insert(p)
	r.nextID++

	if err := r.persist(ctx); err != nil {
		r.delete(p.ID)
		r.nextID--
		return nil, err
	}

	r.logger.Info("Plane created", "planeID", p.ID, "model", p.Model, "totalSeats", p.TotalSeats)
	c := *p
	return &c, nil
}

// Remove deletes a plane and decrements its fleet type
func (r *PlaneRegistry) Remove(ctx context.Context, id int) error {
	p, ok := r.planes[id]
	if !ok {
		return models.PlaneNotFound(id)
	}
	r.delete(id)

	if err := r.persist(ctx); err != nil {
		r.insert(p)
		return err
	}

	r.logger.Info("Plane removed", "planeID", id)
	return nil
}

// Update changes the model or one class seat count. TotalSeats is recomputed
// and the plane moves to its new fleet type.
func (r *PlaneRegistry) Update(ctx context.Context, id int, field, value string) error {
	p, ok := r.planes[id]
	if !ok {
		return models.PlaneNotFound(id)
	}
	updated := *p

	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldModel:
		model := strings.TrimSpace(value)
		if model == "" {
			return models.ErrInvalidModel
		}
		updated.Model = model
	case FieldExecutive, FieldBusiness, FieldEconomy:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return models.ErrInvalidSeatCount
		}
		switch strings.ToLower(strings.TrimSpace(field)) {
		case FieldExecutive:
			updated.ExecutiveSeats = n
		case FieldBusiness:
			updated.BusinessSeats = n
		default:
			updated.EconomySeats = n
		}
	default:
		return fmt.Errorf("%w %q", models.ErrInvalidField, field)
	}
	updated.Recount()

	before := *p
	r.delete(id)
	*p = updated
	r.insert(p)

	if err := r.persist(ctx); err != nil {
		r.delete(id)
		*p = before
		r.insert(p)
		return err
	}

	r.logger.Info("Plane updated", "planeID", id, "field", field)
	return nil
}

// FindByID returns a copy of the plane
func (r *PlaneRegistry) FindByID(id int) (*models.Plane, error) {
	p, ok := r.planes[id]
	if !ok {
		return nil, models.PlaneNotFound(id)
	}
	c := *p
	return &c, nil
}

// List returns copies of all planes ordered by id
func (r *PlaneRegistry) List() []*models.Plane {
	out := make([]*models.Plane, 0, len(r.planes))
	for _, id := range sortedIDs(r.planes) {
		c := *r.planes[id]
		out = append(out, &c)
	}
	return out
}

// FleetTypeCount returns how many planes share the exact configuration.
func (r *PlaneRegistry) FleetTypeCount(ft models.FleetType) int {
	return r.fleet[ft]
}

// FleetTypes returns the counter contents ordered by model then seat counts.
func (r *PlaneRegistry) FleetTypes() []models.FleetTypeCount {
	out := make([]models.FleetTypeCount, 0, len(r.fleet))
	for ft, n := range r.fleet {
		out = append(out, models.FleetTypeCount{FleetType: ft, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.ExecutiveSeats != b.ExecutiveSeats {
			return a.ExecutiveSeats < b.ExecutiveSeats
		}
		if a.BusinessSeats != b.BusinessSeats {
			return a.BusinessSeats < b.BusinessSeats
		}
		return a.EconomySeats < b.EconomySeats
	})
	return out
}

// resolve returns the registry's own plane pointer, shared by flights.
func (r *PlaneRegistry) resolve(id int) (*models.Plane, bool) {
	p, ok := r.planes[id]
	return p, ok
}

func (r *PlaneRegistry) insert(p *models.Plane) {
	r.planes[p.ID] = p
	r.fleet[p.FleetType()]++
}

func (r *PlaneRegistry) delete(id int) {
	p := r.planes[id]
	delete(r.planes, id)
	ft := p.FleetType()
	if r.fleet[ft]--; r.fleet[ft] <= 0 {
		delete(r.fleet, ft)
	}
}

func (r *PlaneRegistry) persist(ctx context.Context) error {
	out := make([]*models.Plane, 0, len(r.planes))
	for _, id := range sortedIDs(r.planes) {
		out = append(out, r.planes[id])
	}
	if err := r.store.SavePlanes(ctx, out); err != nil {
		r.logger.Error("Failed to persist planes", "error", err)
		return err
	}
	return nil
}
