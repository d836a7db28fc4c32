package models

import (
	"strings"
	"time"
)

type SeatClass string

const (
	SeatClassExecutive SeatClass = "executive"
	SeatClassBusiness  SeatClass = "business"
	SeatClassEconomy   SeatClass = "economy"
)

// SeatClasses lists the classes in cabin order.
var SeatClasses = []SeatClass{SeatClassExecutive, SeatClassBusiness, SeatClassEconomy}

// ParseSeatClass accepts class names and their short aliases, case-insensitively.
func ParseSeatClass(s string) (SeatClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "executive", "exec":
		return SeatClassExecutive, nil
	case "business", "biz":
		return SeatClassBusiness, nil
	case "economy", "econ":
		return SeatClassEconomy, nil
	}
	return "", ErrInvalidSeatClass
}

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "Scheduled"
	FlightStatusOnTime    FlightStatus = "On-Time"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCanceled  FlightStatus = "Canceled"
)

// ParseFlightStatus matches a flight status name case-insensitively.
// "ontime" and "on time" are accepted for On-Time.
func ParseFlightStatus(s string) (FlightStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "scheduled":
		return FlightStatusScheduled, nil
	case "on-time", "ontime", "on time":
		return FlightStatusOnTime, nil
	case "delayed":
		return FlightStatusDelayed, nil
	case "canceled", "cancelled":
		return FlightStatusCanceled, nil
	}
	return "", ErrInvalidStatus
}

// Flight represents a scheduled flight operated by one plane. AvailableSeats
// and Capacity are snapshots of the plane's class counts taken at creation.
type Flight struct {
	ID             int               `json:"id"`
	Destination    string            `json:"destination"`
	DepartureTime  time.Time         `json:"departureTime"`
	ArrivalTime    time.Time         `json:"arrivalTime"`
	Plane          *Plane            `json:"plane"`
	Status         FlightStatus      `json:"status"`
	AvailableSeats map[SeatClass]int `json:"availableSeats"`
	Capacity       map[SeatClass]int `json:"capacity"`
}

// PlaneID returns the referenced plane's id, or 0 when unset.
func (f *Flight) PlaneID() int {
	if f.Plane == nil {
		return 0
	}
	return f.Plane.ID
}

// Clone copies the flight and its seat maps. The plane pointer is shared.
func (f *Flight) Clone() *Flight {
	c := *f
	c.AvailableSeats = copySeats(f.AvailableSeats)
	c.Capacity = copySeats(f.Capacity)
	return &c
}

func copySeats(m map[SeatClass]int) map[SeatClass]int {
	if m == nil {
		return nil
	}
	out := make(map[SeatClass]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
