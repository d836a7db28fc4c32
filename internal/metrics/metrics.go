// Package metrics exposes Prometheus instruments for ledger operations and
// flight seat inventory. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

const namespace = "airport"

// ResultOK labels operations that succeeded.
const ResultOK = "ok"

type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	seats      *prometheus.GaugeVec
	records    *prometheus.GaugeVec
	dropped    prometheus.Counter
}

// New creates a registry with the airport instruments plus the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Ledger operations by name and result (ok or error kind).",
		}, []string{"operation", "result"}),
		seats: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flight_available_seats",
			Help:      "Remaining seats per flight and class.",
		}, []string{"flight", "class"}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records held per collection.",
		}, []string{"collection"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flights_dropped_total",
			Help:      "Persisted flights dropped on load because their plane was unknown.",
		}),
	}
	m.registry.MustRegister(
		m.operations,
		m.seats,
		m.records,
		m.dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOperation counts one operation. Failures are labelled with their
// error kind, or "internal" for errors outside the taxonomy.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, Result(err)).Inc()
}

// Result maps an operation error to its metric label.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	if kind := models.KindOf(err); kind != "" {
		return string(kind)
	}
	return "internal"
}

// SetFlightSeats publishes the flight's remaining seats per class.
func (m *Metrics) SetFlightSeats(f *models.Flight) {
	if m == nil || f == nil {
		return
	}
	id := strconv.Itoa(f.ID)
	for class, n := range f.AvailableSeats {
		m.seats.WithLabelValues(id, string(class)).Set(float64(n))
	}
}

// DeleteFlight removes every seat series of the flight.
func (m *Metrics) DeleteFlight(id int) {
	if m == nil {
		return
	}
	m.seats.DeletePartialMatch(prometheus.Labels{"flight": strconv.Itoa(id)})
}

// SetRecords publishes the size of a collection.
func (m *Metrics) SetRecords(collection string, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(collection).Set(float64(n))
}

// AddDroppedFlights counts flights discarded during load.
func (m *Metrics) AddDroppedFlights(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.dropped.Add(float64(n))
}
