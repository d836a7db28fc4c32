package router

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/cx-tal-miterani/airport-operations/internal/handlers"
)

// NewRouter creates and configures the HTTP router. metricsHandler may be nil.
func NewRouter(h *handlers.Handler, metricsHandler http.Handler, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(logger))

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Passengers
	api.HandleFunc("/passengers", h.ListPassengers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/passengers", h.CreatePassenger).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/passengers/{id}", h.GetPassenger).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/passengers/{id}", h.UpdatePassenger).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/passengers/{id}", h.DeletePassenger).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/passengers/{id}/checkin", h.CheckIn).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/passengers/{id}/booking", h.Book).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/passengers/{id}/booking", h.CancelBooking).Methods(http.MethodDelete, http.MethodOptions)

	// Planes
	api.HandleFunc("/planes", h.ListPlanes).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/planes", h.CreatePlane).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/planes/{id}", h.GetPlane).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/planes/{id}", h.UpdatePlane).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/planes/{id}", h.DeletePlane).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/fleet", h.GetFleet).Methods(http.MethodGet, http.MethodOptions)

	// Flights
	api.HandleFunc("/flights", h.ListFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights", h.CreateFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.GetFlight).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/flights/{id}", h.DeleteFlight).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/flights/{id}/status", h.UpdateFlightStatus).Methods(http.MethodPut, http.MethodOptions)

	// WebSocket for real-time seat updates
	api.HandleFunc("/flights/{id}/ws", h.WatchFlight).Methods(http.MethodGet)

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}
