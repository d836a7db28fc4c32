package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cx-tal-miterani/airport-operations/internal/ledger"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/service"
)

// FlightWatcher subscribes a websocket connection to one flight's updates
type FlightWatcher interface {
	ServeWS(w http.ResponseWriter, r *http.Request, flightID int)
}

// Handler contains HTTP handlers for the API
type Handler struct {
	airport service.AirportService
	watcher FlightWatcher
	logger  *slog.Logger
}

// NewHandler creates a new Handler instance. watcher may be nil, in which
// case the websocket endpoint answers 404.
func NewHandler(airport service.AirportService, watcher FlightWatcher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{airport: airport, watcher: watcher, logger: logger}
}

// UpdateRequest changes one field of a record
type UpdateRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// CheckInRequest carries the baggage presented at check-in
type CheckInRequest struct {
	BaggageWeight float64    `json:"baggageWeight"`
	Dimensions    [3]float64 `json:"dimensions"`
}

// BookingRequest reserves a seat on a flight
type BookingRequest struct {
	FlightID  int    `json:"flightId"`
	SeatClass string `json:"seatClass"`
}

// StatusRequest sets a flight status
type StatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindConflict:
		return http.StatusConflict
	case models.KindCapacity:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, status, "internal error")
		return
	}
	respondJSON(w, status, ErrorResponse{Error: err.Error(), Kind: string(models.KindOf(err))})
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("Invalid request body")
	}
	return nil
}

// --- Passengers ---

// ListPassengers handles GET /api/passengers. Optional query parameters
// id, name or passport filter by exact match.
func (h *Handler) ListPassengers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	for _, by := range []ledger.FindBy{ledger.FindByID, ledger.FindByName, ledger.FindByPassport} {
		if !q.Has(string(by)) {
			continue
		}
		passengers, err := h.airport.FindPassengers(r.Context(), by, q.Get(string(by)))
		if err != nil {
			h.respondFailure(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, passengers)
		return
	}
	respondJSON(w, http.StatusOK, h.airport.ListPassengers(r.Context()))
}

// GetPassenger handles GET /api/passengers/{id}
func (h *Handler) GetPassenger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.GetPassenger(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreatePassenger handles POST /api/passengers
func (h *Handler) CreatePassenger(w http.ResponseWriter, r *http.Request) {
	var req ledger.AddPassengerInput
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.AddPassenger(r.Context(), req)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// UpdatePassenger handles PATCH /api/passengers/{id}
func (h *Handler) UpdatePassenger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.UpdatePassenger(r.Context(), id, req.Field, req.Value)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeletePassenger handles DELETE /api/passengers/{id}
func (h *Handler) DeletePassenger(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.airport.RemovePassenger(r.Context(), id); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckIn handles POST /api/passengers/{id}/checkin
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CheckInRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.CheckIn(r.Context(), id, req.BaggageWeight, req.Dimensions)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Book handles POST /api/passengers/{id}/booking
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req BookingRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	class, err := models.ParseSeatClass(req.SeatClass)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	p, err := h.airport.Book(r.Context(), id, req.FlightID, class)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// CancelBooking handles DELETE /api/passengers/{id}/booking
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.CancelBooking(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// --- Planes ---

// ListPlanes handles GET /api/planes
func (h *Handler) ListPlanes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.airport.ListPlanes(r.Context()))
}

// GetPlane handles GET /api/planes/{id}
func (h *Handler) GetPlane(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.GetPlane(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// CreatePlane handles POST /api/planes
func (h *Handler) CreatePlane(w http.ResponseWriter, r *http.Request) {
	var req ledger.AddPlaneInput
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.AddPlane(r.Context(), req)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// UpdatePlane handles PATCH /api/planes/{id}
func (h *Handler) UpdatePlane(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.airport.UpdatePlane(r.Context(), id, req.Field, req.Value)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeletePlane handles DELETE /api/planes/{id}
func (h *Handler) DeletePlane(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.airport.RemovePlane(r.Context(), id); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFleet handles GET /api/fleet
func (h *Handler) GetFleet(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.airport.FleetTypes(r.Context()))
}

// --- Flights ---

// ListFlights handles GET /api/flights
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.airport.ListFlights(r.Context()))
}

// GetFlight handles GET /api/flights/{id}
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := h.airport.GetFlight(r.Context(), id)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// CreateFlight handles POST /api/flights
func (h *Handler) CreateFlight(w http.ResponseWriter, r *http.Request) {
	var req ledger.AddFlightInput
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := h.airport.AddFlight(r.Context(), req)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, f)
}

// UpdateFlightStatus handles PUT /api/flights/{id}/status
func (h *Handler) UpdateFlightStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req StatusRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status, err := models.ParseFlightStatus(req.Status)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	f, err := h.airport.UpdateFlightStatus(r.Context(), id, status)
	if err != nil {
		h.respondFailure(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// DeleteFlight handles DELETE /api/flights/{id}
func (h *Handler) DeleteFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.airport.RemoveFlight(r.Context(), id); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WatchFlight handles GET /api/flights/{id}/ws
func (h *Handler) WatchFlight(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.watcher == nil {
		respondError(w, http.StatusNotFound, "live updates are disabled")
		return
	}
	if _, err := h.airport.GetFlight(r.Context(), id); err != nil {
		h.respondFailure(w, r, err)
		return
	}
	h.watcher.ServeWS(w, r, id)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
