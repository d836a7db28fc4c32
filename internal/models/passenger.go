package models

import (
	"math"
	"strings"
)

// Gender is the fixed passenger gender enumeration.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// ParseGender accepts the single-letter codes M/F/O or the full names, case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "male":
		return GenderMale, nil
	case "f", "female":
		return GenderFemale, nil
	case "o", "other":
		return GenderOther, nil
	}
	return "", ErrInvalidGender
}

type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "Pending"
	TicketStatusConfirmed TicketStatus = "Confirmed"
	TicketStatusCancelled TicketStatus = "Cancelled"
)

// ParseTicketStatus matches a ticket status name case-insensitively.
func ParseTicketStatus(s string) (TicketStatus, error) {
	for _, st := range []TicketStatus{TicketStatusPending, TicketStatusConfirmed, TicketStatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

// Baggage limits applied at check-in.
const (
	MaxBaggageWeightKg     = 23.0
	MaxBaggageLinearSizeCm = 158.0
)

// Passenger represents a registered traveller
type Passenger struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Age            int          `json:"age"`
	Gender         Gender       `json:"gender"`
	Nationality    string       `json:"nationality"`
	PassportNumber string       `json:"passportNumber"`
	CheckedIn      bool         `json:"checkedIn"`
	BaggageWeight  float64      `json:"baggageWeight"`
	TicketStatus   TicketStatus `json:"ticketStatus"`
	FlightID       *int         `json:"flightId,omitempty"`
	SeatClass      *SeatClass   `json:"seatClass,omitempty"`
	BookingRef     string       `json:"bookingRef,omitempty"`
}

// HasBooking reports whether the passenger holds an active flight reference.
func (p *Passenger) HasBooking() bool {
	return p.FlightID != nil
}

// Clone returns a deep copy so callers never alias ledger state.
func (p *Passenger) Clone() *Passenger {
	c := *p
	if p.FlightID != nil {
		id := *p.FlightID
		c.FlightID = &id
	}
	if p.SeatClass != nil {
		class := *p.SeatClass
		c.SeatClass = &class
	}
	return &c
}

// ValidatePassport checks the passport number is 8 or 9 ASCII digits.
func ValidatePassport(passport string) error {
	if len(passport) != 8 && len(passport) != 9 {
		return ErrInvalidPassport
	}
	for _, c := range passport {
		if c < '0' || c > '9' {
			return ErrInvalidPassport
		}
	}
	return nil
}

// ValidateBaggage applies the check-in baggage rules: positive weight and
// dimensions, at most 23kg, and at most 158cm summed over the three dimensions.
func ValidateBaggage(weight float64, dims [3]float64) error {
	if !positive(weight) {
		return ErrInvalidBaggage
	}
	var sum float64
	for _, d := range dims {
		if !positive(d) {
			return ErrInvalidBaggage
		}
		sum += d
	}
	if weight > MaxBaggageWeightKg {
		return ErrOverweight
	}
	if sum > MaxBaggageLinearSizeCm {
		return ErrOversize
	}
	return nil
}

// positive reports whether v is a finite number above zero. NaN fails every
// comparison, so it is ruled out explicitly.
func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
