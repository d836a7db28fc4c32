package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// MockAirportService is a mock implementation of AirportService
type MockAirportService struct {
	mock.Mock
}

func (m *MockAirportService) ListPassengers(ctx context.Context) []*models.Passenger {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Passenger)
}

func (m *MockAirportService) GetPassenger(ctx context.Context, id int) (*models.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) FindPassengers(ctx context.Context, by ledger.FindBy, value string) ([]*models.Passenger, error) {
	args := m.Called(ctx, by, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Passenger), args.Error(1)
}

func (m *MockAirportService) AddPassenger(ctx context.Context, in ledger.AddPassengerInput) (*models.Passenger, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) UpdatePassenger(ctx context.Context, id int, field, value string) (*models.Passenger, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) RemovePassenger(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAirportService) CheckIn(ctx context.Context, id int, baggageWeight float64, dims [3]float64) (*models.Passenger, error) {
	args := m.Called(ctx, id, baggageWeight, dims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) Book(ctx context.Context, passengerID, flightID int, class models.SeatClass) (*models.Passenger, error) {
	args := m.Called(ctx, passengerID, flightID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) CancelBooking(ctx context.Context, passengerID int) (*models.Passenger, error) {
	args := m.Called(ctx, passengerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Passenger), args.Error(1)
}

func (m *MockAirportService) ListPlanes(ctx context.Context) []*models.Plane {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Plane)
}

func (m *MockAirportService) GetPlane(ctx context.Context, id int) (*models.Plane, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plane), args.Error(1)
}

func (m *MockAirportService) AddPlane(ctx context.Context, in ledger.AddPlaneInput) (*models.Plane, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plane), args.Error(1)
}

func (m *MockAirportService) UpdatePlane(ctx context.Context, id int, field, value string) (*models.Plane, error) {
	args := m.Called(ctx, id, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plane), args.Error(1)
}

func (m *MockAirportService) RemovePlane(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAirportService) FleetTypes(ctx context.Context) []models.FleetTypeCount {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.FleetTypeCount)
}

func (m *MockAirportService) ListFlights(ctx context.Context) []*models.Flight {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*models.Flight)
}

func (m *MockAirportService) GetFlight(ctx context.Context, id int) (*models.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockAirportService) AddFlight(ctx context.Context, in ledger.AddFlightInput) (*models.Flight, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockAirportService) UpdateFlightStatus(ctx context.Context, id int, status models.FlightStatus) (*models.Flight, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockAirportService) RemoveFlight(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
