package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/metrics"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/repository"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

// AirportService defines the operations exposed to the HTTP API and the CLI
type AirportService interface {
	ListPassengers(ctx context.Context) []*models.Passenger
	GetPassenger(ctx context.Context, id int) (*models.Passenger, error)
	FindPassengers(ctx context.Context, by ledger.FindBy, value string) ([]*models.Passenger, error)
	AddPassenger(ctx context.Context, in ledger.AddPassengerInput) (*models.Passenger, error)
	UpdatePassenger(ctx context.Context, id int, field, value string) (*models.Passenger, error)
	RemovePassenger(ctx context.Context, id int) error
	CheckIn(ctx context.Context, id int, baggageWeight float64, dims [3]float64) (*models.Passenger, error)
	Book(ctx context.Context, passengerID, flightID int, class models.SeatClass) (*models.Passenger, error)
	CancelBooking(ctx context.Context, passengerID int) (*models.Passenger, error)

	ListPlanes(ctx context.Context) []*models.Plane
	GetPlane(ctx context.Context, id int) (*models.Plane, error)
	AddPlane(ctx context.Context, in ledger.AddPlaneInput) (*models.Plane, error)
	UpdatePlane(ctx context.Context, id int, field, value string) (*models.Plane, error)
	RemovePlane(ctx context.Context, id int) error
	FleetTypes(ctx context.Context) []models.FleetTypeCount

	ListFlights(ctx context.Context) []*models.Flight
	GetFlight(ctx context.Context, id int) (*models.Flight, error)
	AddFlight(ctx context.Context, in ledger.AddFlightInput) (*models.Flight, error)
	UpdateFlightStatus(ctx context.Context, id int, status models.FlightStatus) (*models.Flight, error)
	RemoveFlight(ctx context.Context, id int) error
}

// Notifier receives flight changes, e.g. to push them to websocket watchers
type Notifier interface {
	FlightChanged(f *models.Flight)
	FlightRemoved(flightID int)
}

type noopNotifier struct{}

func (noopNotifier) FlightChanged(*models.Flight) {}
func (noopNotifier) FlightRemoved(int)            {}

// Options configures an Airport
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Notifier Notifier
	// Saga, when set, runs bookings as a durable workflow instead of
	// calling the coordinator directly.
	Saga Saga
	// Refresh re-reads every collection before each mutation. Enable it
	// when another process writes to the same backend.
	Refresh bool
}

// LoadReport summarizes what Load found in the backend
type LoadReport struct {
	Planes         int   `json:"planes"`
	Flights        int   `json:"flights"`
	Passengers     int   `json:"passengers"`
	DroppedFlights []int `json:"droppedFlights,omitempty"`
	// CancelledBookings lists passengers whose booked flight was not found.
	CancelledBookings []int `json:"cancelledBookings,omitempty"`
}

// Airport owns the three ledgers over one backend and serializes every
// operation behind a single mutex.
type Airport struct {
	mu          sync.Mutex
	backend     storage.Backend
	planes      *ledger.PlaneRegistry
	flights     *ledger.FlightLedger
	passengers  *ledger.PassengerLedger
	coordinator *ledger.Coordinator
	metrics     *metrics.Metrics
	notifier    Notifier
	saga        Saga
	refresh     bool
	logger      *slog.Logger
}

var _ AirportService = (*Airport)(nil)

// New creates an Airport over backend. Call Load before use.
func New(backend storage.Backend, opts Options) *Airport {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}

	repo := repository.NewRepository(backend, logger.With("component", "repository"))
	planes := ledger.NewPlaneRegistry(repo, logger.With("component", "planes"))
	flights := ledger.NewFlightLedger(planes, repo, logger.With("component", "flights"))
	passengers := ledger.NewPassengerLedger(repo, logger.With("component", "passengers"))

	return &Airport{
		backend:     backend,
		planes:      planes,
		flights:     flights,
		passengers:  passengers,
		coordinator: ledger.NewCoordinator(passengers, flights, logger.With("component", "booking")),
		metrics:     opts.Metrics,
		notifier:    notifier,
		saga:        opts.Saga,
		refresh:     opts.Refresh,
		logger:      logger,
	}
}

// Open opens the configured backend and loads an Airport over it.
func Open(ctx context.Context, storageOpts storage.Options, opts Options) (*Airport, LoadReport, error) {
	backend, err := storage.Open(ctx, storageOpts)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("failed to open storage: %w", err)
	}
	a := New(backend, opts)
	return a, a.Load(ctx), nil
}

// Load hydrates the ledgers in dependency order: planes, flights, passengers.
// Missing or corrupt collections start empty.
func (a *Airport) Load(ctx context.Context) LoadReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.planes.Load(ctx)
	dropped := a.flights.Load(ctx)
	a.passengers.Load(ctx)

	if len(dropped) > 0 {
		a.logger.Warn("Dropped flights referencing unknown planes", "count", len(dropped), "flightIDs", dropped)
	}
	a.metrics.AddDroppedFlights(len(dropped))
	cancelled, err := a.coordinator.ClearDanglingBookings(ctx)
	if err != nil {
		a.logger.Warn("Failed to cancel bookings on unknown flights", "error", err)
	}
	a.publishAll()

	return LoadReport{
		Planes:            len(a.planes.List()),
		Flights:           len(a.flights.List()),
		Passengers:        len(a.passengers.List()),
		DroppedFlights:    dropped,
		CancelledBookings: cancelled,
	}
}

// Close releases the backend
func (a *Airport) Close() error {
	return a.backend.Close()
}

// sync re-reads every collection when refresh is enabled. The caller holds a.mu.
func (a *Airport) sync(ctx context.Context) error {
	if !a.refresh {
		return nil
	}
	return a.reload(ctx)
}

// reload re-reads every collection, keeping the current contents of any
// collection that cannot be read. The caller holds a.mu.
func (a *Airport) reload(ctx context.Context) error {
	if err := a.planes.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh planes: %w", err)
	}
	dropped, err := a.flights.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh flights: %w", err)
	}
	a.metrics.AddDroppedFlights(len(dropped))
	if err := a.passengers.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh passengers: %w", err)
	}
	if _, err := a.coordinator.ClearDanglingBookings(ctx); err != nil {
		return fmt.Errorf("failed to cancel bookings on unknown flights: %w", err)
	}
	a.publishAll()
	return nil
}

func (a *Airport) observe(operation string, err error) error {
	a.metrics.ObserveOperation(operation, err)
	return err
}

// publishAll refreshes every gauge. The caller holds a.mu.
func (a *Airport) publishAll() {
	a.metrics.SetRecords(storage.CollectionPlanes, len(a.planes.List()))
	a.metrics.SetRecords(storage.CollectionPassengers, len(a.passengers.List()))
	flights := a.flights.List()
	a.metrics.SetRecords(storage.CollectionFlights, len(flights))
	for _, f := range flights {
		a.metrics.SetFlightSeats(f)
	}
}

// flightChanged publishes the flight's current state. The caller holds a.mu.
func (a *Airport) flightChanged(id int) {
	f, err := a.flights.FindByID(id)
	if err != nil {
		return
	}
	a.metrics.SetFlightSeats(f)
	a.notifier.FlightChanged(f)
}

// flightRemoved drops the flight's series and notifies watchers. The caller holds a.mu.
func (a *Airport) flightRemoved(id int) {
	a.metrics.DeleteFlight(id)
	a.metrics.SetRecords(storage.CollectionFlights, len(a.flights.List()))
	a.notifier.FlightRemoved(id)
}
