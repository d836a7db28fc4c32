package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: "ok"},
		{name: "validation", err: models.ErrInvalidPassport, want: "validation"},
		{name: "wrapped not found", err: models.FlightNotFound(3), want: "not_found"},
		{name: "capacity", err: fmt.Errorf("flight 1 economy: %w", models.ErrNoSeats), want: "capacity"},
		{name: "outside taxonomy", err: errors.New("disk full"), want: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Result(tt.err))
		})
	}
}

func TestMetrics_Operations(t *testing.T) {
	m := New()

	m.ObserveOperation("book", nil)
	m.ObserveOperation("book", nil)
	m.ObserveOperation("book", models.ErrAlreadyBooked)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues("book", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues("book", "conflict")))
}

func TestMetrics_FlightSeats(t *testing.T) {
	m := New()
	f := &models.Flight{ID: 4, AvailableSeats: map[models.SeatClass]int{
		models.SeatClassExecutive: 2,
		models.SeatClassBusiness:  4,
		models.SeatClassEconomy:   7,
	}}

	m.SetFlightSeats(f)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.seats.WithLabelValues("4", "economy")))
	assert.Equal(t, 3, testutil.CollectAndCount(m.seats))

	m.DeleteFlight(4)
	assert.Equal(t, 0, testutil.CollectAndCount(m.seats))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveOperation("book", nil)
		m.SetFlightSeats(&models.Flight{ID: 1})
		m.DeleteFlight(1)
		m.SetRecords("planes", 3)
		m.AddDroppedFlights(2)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.SetRecords("passengers", 3)
	m.AddDroppedFlights(1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `airport_records{collection="passengers"} 3`)
	assert.Contains(t, body, "airport_flights_dropped_total 1")
}
