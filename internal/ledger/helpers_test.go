package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/repository"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

var errDiskFull = errors.New("disk full")

// flakyBackend wraps a memory backend and fails writes to selected collections.
type flakyBackend struct {
	*storage.MemoryBackend
	mu     sync.Mutex
	failOn map[string]bool
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{MemoryBackend: storage.NewMemoryBackend(), failOn: make(map[string]bool)}
}

func (b *flakyBackend) fail(collection string, on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failOn[collection] = on
}

func (b *flakyBackend) Write(ctx context.Context, collection string, payload []byte) error {
	b.mu.Lock()
	fail := b.failOn[collection]
	b.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return b.MemoryBackend.Write(ctx, collection, payload)
}

type fixture struct {
	backend     *flakyBackend
	repo        *repository.Repository
	planes      *PlaneRegistry
	flights     *FlightLedger
	passengers  *PassengerLedger
	coordinator *Coordinator
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureOn(t, newFlakyBackend())
}

// newFixtureOn builds and loads ledgers over an existing backend, planes first.
func newFixtureOn(t *testing.T, backend *flakyBackend) *fixture {
	t.Helper()
	repo := repository.NewRepository(backend, discard)
	planes := NewPlaneRegistry(repo, discard)
	flights := NewFlightLedger(planes, repo, discard)
	passengers := NewPassengerLedger(repo, discard)

	ctx := context.Background()
	planes.Load(ctx)
	flights.Load(ctx)
	passengers.Load(ctx)

	return &fixture{
		backend:     backend,
		repo:        repo,
		planes:      planes,
		flights:     flights,
		passengers:  passengers,
		coordinator: NewCoordinator(passengers, flights, discard),
	}
}

func (f *fixture) addPlane(t *testing.T, model string, exec, biz, econ int) *models.Plane {
	t.Helper()
	p, err := f.planes.Create(context.Background(), AddPlaneInput{
		Model: model, ExecutiveSeats: exec, BusinessSeats: biz, EconomySeats: econ,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) addFlight(t *testing.T, planeID int) *models.Flight {
	t.Helper()
	dep := time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC)
	fl, err := f.flights.Add(context.Background(), AddFlightInput{
		Destination:   "Lisbon",
		DepartureTime: dep,
		ArrivalTime:   dep.Add(2 * time.Hour),
		PlaneID:       planeID,
	})
	require.NoError(t, err)
	return fl
}

func (f *fixture) addPassenger(t *testing.T, name, passport string) *models.Passenger {
	t.Helper()
	p, err := f.passengers.Add(context.Background(), AddPassengerInput{
		Name: name, Age: 30, Gender: "F", Nationality: "PT", PassportNumber: passport,
	})
	require.NoError(t, err)
	return p
}
