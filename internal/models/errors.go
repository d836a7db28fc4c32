package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures reported by the ledgers and the booking coordinator.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindCapacity   ErrorKind = "capacity"
)

// Error is a structured operation failure. A kind-only Error (empty Message)
// matches every Error of the same kind under errors.Is.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is the kind sentinel for e's kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrCapacity   = &Error{Kind: KindCapacity}
)

var (
	ErrInvalidAge        = &Error{Kind: KindValidation, Message: "age must be a non-negative integer"}
	ErrInvalidGender     = &Error{Kind: KindValidation, Message: "gender must be one of M, F, O"}
	ErrInvalidPassport   = &Error{Kind: KindValidation, Message: "passport number must be 8 or 9 digits"}
	ErrInvalidName       = &Error{Kind: KindValidation, Message: "name is required"}
	ErrInvalidBaggage    = &Error{Kind: KindValidation, Message: "baggage weight and dimensions must be positive"}
	ErrInvalidSeatClass  = &Error{Kind: KindValidation, Message: "unknown seat class"}
	ErrInvalidSeatCount  = &Error{Kind: KindValidation, Message: "seat counts must be non-negative integers"}
	ErrInvalidStatus     = &Error{Kind: KindValidation, Message: "unknown status"}
	ErrInvalidField      = &Error{Kind: KindValidation, Message: "unknown field"}
	ErrInvalidSchedule   = &Error{Kind: KindValidation, Message: "arrival must not precede departure"}
	ErrInvalidDest       = &Error{Kind: KindValidation, Message: "destination is required"}
	ErrInvalidModel      = &Error{Kind: KindValidation, Message: "plane model is required"}
	ErrPassengerNotFound = &Error{Kind: KindNotFound, Message: "passenger not found"}
	ErrPlaneNotFound     = &Error{Kind: KindNotFound, Message: "plane not found"}
	ErrFlightNotFound    = &Error{Kind: KindNotFound, Message: "flight not found"}
	ErrDuplicatePassport = &Error{Kind: KindConflict, Message: "passport number already registered"}
	ErrAlreadyCheckedIn  = &Error{Kind: KindConflict, Message: "passenger already checked in"}
	ErrAlreadyBooked     = &Error{Kind: KindConflict, Message: "passenger already booked on a flight"}
	ErrNotBooked         = &Error{Kind: KindConflict, Message: "passenger has no booking"}
	ErrFlightCanceled    = &Error{Kind: KindConflict, Message: "flight is canceled"}
	ErrPlaneInUse        = &Error{Kind: KindConflict, Message: "plane is assigned to flights"}
	ErrStatusNeedsFlight = &Error{Kind: KindConflict, Message: "a confirmed ticket requires a booking"}
	ErrStatusWhileBooked = &Error{Kind: KindConflict, Message: "ticket status of a booked passenger changes only through cancel"}
	ErrNoSeats           = &Error{Kind: KindCapacity, Message: "no seats remaining in class"}
	ErrOverweight        = &Error{Kind: KindCapacity, Message: "baggage exceeds 23kg limit"}
	ErrOversize          = &Error{Kind: KindCapacity, Message: "baggage exceeds 158cm linear dimension limit"}
)

// KindOf returns the kind of the first *Error in err's chain, or "" when none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func notFound(base *Error, id int) error {
	return fmt.Errorf("%w: id %d", base, id)
}

// PassengerNotFound wraps ErrPassengerNotFound with the missing id.
func PassengerNotFound(id int) error { return notFound(ErrPassengerNotFound, id) }

// PlaneNotFound wraps ErrPlaneNotFound with the missing id.
func PlaneNotFound(id int) error { return notFound(ErrPlaneNotFound, id) }

// FlightNotFound wraps ErrFlightNotFound with the missing id.
func FlightNotFound(id int) error { return notFound(ErrFlightNotFound, id) }
