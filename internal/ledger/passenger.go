package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

// AddPassengerInput carries the fields of a new passenger
type AddPassengerInput struct {
	Name           string `json:"name"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	Nationality    string `json:"nationality"`
	PassportNumber string `json:"passportNumber"`
}

// FindBy selects the attribute Find matches on.
type FindBy string

const (
	FindByID       FindBy = "id"
	FindByName     FindBy = "name"
	FindByPassport FindBy = "passport"
)

// Updatable passenger fields.
const (
	FieldName        = "name"
	FieldAge         = "age"
	FieldGender      = "gender"
	FieldNationality = "nationality"
	FieldPassport    = "passport"
	FieldStatus      = "status"
)

// PassengerLedger stores passengers keyed by id
type PassengerLedger struct {
	passengers map[int]*models.Passenger
	nextID     int
	store      PassengerStore
	logger     *slog.Logger
}

// NewPassengerLedger creates an empty ledger. Call Load to hydrate it.
func NewPassengerLedger(store PassengerStore, logger *slog.Logger) *PassengerLedger {
	return &PassengerLedger{
		passengers: make(map[int]*models.Passenger),
		nextID:     1,
		store:      store,
		logger:     loggerOrDefault(logger),
	}
}

// Load replaces the ledger contents with the persisted collection. Unreadable
// or corrupt data leaves the ledger empty and is only logged.
func (l *PassengerLedger) Load(ctx context.Context) {
	l.passengers = make(map[int]*models.Passenger)
	l.nextID = 1
	if err := l.Refresh(ctx); err != nil {
		l.logger.Warn("Starting with empty passenger ledger", "error", err)
	}
}

// Refresh re-reads the persisted collection. On error the current contents
// are kept.
func (l *PassengerLedger) Refresh(ctx context.Context) error {
	passengers, err := l.store.LoadPassengers(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int]*models.Passenger, len(passengers))
	nextID := 1
	for _, p := range passengers {
		if p == nil {
			continue
		}
		if p.TicketStatus == "" {
			p.TicketStatus = models.TicketStatusPending
		}
		byID[p.ID] = p
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	// The lowest id keeps a passport that appears more than once.
	owner := make(map[string]int, len(byID))
	for _, id := range sortedIDs(byID) {
		passport := byID[id].PassportNumber
		if first, dup := owner[passport]; dup {
			l.logger.Warn("Skipping passenger with duplicate passport", "passengerID", id, "keptPassengerID", first)
			delete(byID, id)
			continue
		}
		owner[passport] = id
	}
	l.passengers = byID
	l.nextID = nextID
	l.logger.Info("Passenger ledger loaded", "count", len(l.passengers), "nextID", l.nextID)
	return nil
}

// NextID returns the id the next Add will assign.
func (l *PassengerLedger) NextID() int { return l.nextID }

// Add validates and registers a new passenger with status Pending
func (l *PassengerLedger) Add(ctx context.Context, in AddPassengerInput) (*models.Passenger, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.ErrInvalidName
	}
	if in.Age < 0 {
		return nil, models.ErrInvalidAge
	}
	gender, err := models.ParseGender(in.Gender)
	if err != nil {
		return nil, err
	}
	passport := strings.TrimSpace(in.PassportNumber)
	if err := l.checkPassport(passport, 0); err != nil {
		return nil, err
	}

	p := &models.Passenger{
		ID:             l.nextID,
		Name:           name,
		Age:            in.Age,
		Gender:         gender,
		Nationality:    strings.TrimSpace(in.Nationality),
		PassportNumber: passport,
		TicketStatus:   models.TicketStatusPending,
	}
	l.passengers[p.ID] = p
	l.nextID++

	if err := l.persist(ctx); err != nil {
		delete(l.passengers, p.ID)
		l.nextID--
		return nil, err
	}

	l.logger.Info("Passenger added", "passengerID", p.ID, "name", p.Name)
	return p.Clone(), nil
}

// Update changes one field of a passenger, applying the same validation as Add
func (l *PassengerLedger) Update(ctx context.Context, id int, field, value string) error {
	p, ok := l.passengers[id]
	if !ok {
		return models.PassengerNotFound(id)
	}
	before := p.Clone()

	switch strings.ToLower(strings.TrimSpace(field)) {
	case FieldName:
		name := strings.TrimSpace(value)
		if name == "" {
			return models.ErrInvalidName
		}
		p.Name = name
	case FieldAge:
		age, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || age < 0 {
			return models.ErrInvalidAge
		}
		p.Age = age
	case FieldGender:
		gender, err := models.ParseGender(value)
		if err != nil {
			return err
		}
		p.Gender = gender
	case FieldNationality:
		p.Nationality = strings.TrimSpace(value)
	case FieldPassport:
		passport := strings.TrimSpace(value)
		if err := l.checkPassport(passport, id); err != nil {
			return err
		}
		p.PassportNumber = passport
	case FieldStatus:
		status, err := models.ParseTicketStatus(value)
		if err != nil {
			return err
		}
		if err := checkStatusChange(p, status); err != nil {
			return err
		}
		p.TicketStatus = status
	default:
		return fmt.Errorf("%w %q", models.ErrInvalidField, field)
	}

	if err := l.persist(ctx); err != nil {
		l.passengers[id] = before
		return err
	}

	l.logger.Info("Passenger updated", "passengerID", id, "field", field)
	return nil
}

// Remove deletes a passenger
func (l *PassengerLedger) Remove(ctx context.Context, id int) error {
	p, ok := l.passengers[id]
	if !ok {
		return models.PassengerNotFound(id)
	}
	delete(l.passengers, id)

	if err := l.persist(ctx); err != nil {
		l.passengers[id] = p
		return err
	}

	l.logger.Info("Passenger removed", "passengerID", id)
	return nil
}

// Get returns a copy of the passenger with the given id
func (l *PassengerLedger) Get(id int) (*models.Passenger, error) {
	p, ok := l.passengers[id]
	if !ok {
		return nil, models.PassengerNotFound(id)
	}
	return p.Clone(), nil
}

// List returns copies of all passengers ordered by id
func (l *PassengerLedger) List() []*models.Passenger {
	out := make([]*models.Passenger, 0, len(l.passengers))
	for _, id := range sortedIDs(l.passengers) {
		out = append(out, l.passengers[id].Clone())
	}
	return out
}

// Find returns passengers whose attribute exactly matches value. Name
// matching ignores case.
func (l *PassengerLedger) Find(by FindBy, value string) ([]*models.Passenger, error) {
	value = strings.TrimSpace(value)

	var match func(p *models.Passenger) bool
	switch by {
	case FindByID:
		id, err := strconv.Atoi(value)
		if err != nil {
			return []*models.Passenger{}, nil
		}
		match = func(p *models.Passenger) bool { return p.ID == id }
	case FindByName:
		match = func(p *models.Passenger) bool { return strings.EqualFold(p.Name, value) }
	case FindByPassport:
		match = func(p *models.Passenger) bool { return p.PassportNumber == value }
	default:
		return nil, fmt.Errorf("%w %q", models.ErrInvalidField, by)
	}

	out := []*models.Passenger{}
	for _, id := range sortedIDs(l.passengers) {
		if p := l.passengers[id]; match(p) {
			out = append(out, p.Clone())
		}
	}
	return out, nil
}

// CheckIn records baggage and marks the passenger checked in. A passenger can
// be checked in only once; later attempts fail without touching the record.
func (l *PassengerLedger) CheckIn(ctx context.Context, id int, baggageWeight float64, dims [3]float64) error {
	p, ok := l.passengers[id]
	if !ok {
		return models.PassengerNotFound(id)
	}
	if p.CheckedIn {
		return fmt.Errorf("passenger %d: %w", id, models.ErrAlreadyCheckedIn)
	}
	if err := models.ValidateBaggage(baggageWeight, dims); err != nil {
		return err
	}

	p.CheckedIn = true
	p.BaggageWeight = baggageWeight

	if err := l.persist(ctx); err != nil {
		p.CheckedIn = false
		p.BaggageWeight = 0
		return err
	}

	l.logger.Info("Passenger checked in", "passengerID", id, "baggageKg", baggageWeight)
	return nil
}

// AssignBooking links a passenger to a flight and confirms the ticket. The
// flight's seat inventory is not touched; see Coordinator.Book for the
// combined operation.
func (l *PassengerLedger) AssignBooking(ctx context.Context, id, flightID int, class models.SeatClass, ref string) error {
	if _, err := l.bookable(id); err != nil {
		return err
	}
	undo := l.assignBooking(id, flightID, class, ref)
	if err := l.persist(ctx); err != nil {
		undo()
		return err
	}
	return nil
}

// bookable returns the passenger when it exists and holds no flight reference.
func (l *PassengerLedger) bookable(id int) (*models.Passenger, error) {
	p, ok := l.passengers[id]
	if !ok {
		return nil, models.PassengerNotFound(id)
	}
	if p.HasBooking() {
		return nil, fmt.Errorf("passenger %d on flight %d: %w", id, *p.FlightID, models.ErrAlreadyBooked)
	}
	return p, nil
}

func (l *PassengerLedger) assignBooking(id, flightID int, class models.SeatClass, ref string) (undo func()) {
	p := l.passengers[id]
	before := p.Clone()
	p.FlightID = &flightID
	p.SeatClass = &class
	p.BookingRef = ref
	p.TicketStatus = models.TicketStatusConfirmed
	return func() { l.passengers[id] = before }
}

func (l *PassengerLedger) clearBooking(id int) (undo func()) {
	p := l.passengers[id]
	before := p.Clone()
	p.FlightID = nil
	p.SeatClass = nil
	p.BookingRef = ""
	p.TicketStatus = models.TicketStatusCancelled
	return func() { l.passengers[id] = before }
}

// onFlight returns the ids of passengers booked on the flight.
func (l *PassengerLedger) onFlight(flightID int) []int {
	var ids []int
	for _, id := range sortedIDs(l.passengers) {
		if p := l.passengers[id]; p.FlightID != nil && *p.FlightID == flightID {
			ids = append(ids, id)
		}
	}
	return ids
}

// checkStatusChange keeps the ticket status in step with the flight
// reference: only a booked passenger is Confirmed, and a booking is undone
// through Cancel rather than a status edit.
func checkStatusChange(p *models.Passenger, status models.TicketStatus) error {
	booked := p.HasBooking()
	if booked && status != models.TicketStatusConfirmed {
		return fmt.Errorf("passenger %d: %w", p.ID, models.ErrStatusWhileBooked)
	}
	if !booked && status == models.TicketStatusConfirmed {
		return fmt.Errorf("passenger %d: %w", p.ID, models.ErrStatusNeedsFlight)
	}
	return nil
}

// checkPassport validates format and uniqueness, ignoring passenger self.
func (l *PassengerLedger) checkPassport(passport string, self int) error {
	if err := models.ValidatePassport(passport); err != nil {
		return err
	}
	for id, p := range l.passengers {
		if id != self && p.PassportNumber == passport {
			return fmt.Errorf("%w: %s", models.ErrDuplicatePassport, passport)
		}
	}
	return nil
}

func (l *PassengerLedger) persist(ctx context.Context) error {
	out := make([]*models.Passenger, 0, len(l.passengers))
	for _, id := range sortedIDs(l.passengers) {
		out = append(out, l.passengers[id])
	}
	if err := l.store.SavePassengers(ctx, out); err != nil {
		l.logger.Error("Failed to persist passengers", "error", err)
		return err
	}
	return nil
}
