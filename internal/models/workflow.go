package models

// Temporal names shared by the worker and the API server.
const (
	BookingTaskQueue    = "airport-booking-queue"
	BookingWorkflowName = "BookingWorkflow"

	ActivityCheckBooking  = "CheckBooking"
	ActivityReserveSeat   = "ReserveSeat"
	ActivityConfirmTicket = "ConfirmTicket"
	ActivityReleaseSeat   = "ReleaseSeat"
)

// BookingWorkflowInput is the input for the booking workflow
type BookingWorkflowInput struct {
	PassengerID int       `json:"passengerId"`
	FlightID    int       `json:"flightId"`
	SeatClass   SeatClass `json:"seatClass"`
}

// BookingWorkflowResult is the result of the booking workflow
type BookingWorkflowResult struct {
	Success       bool   `json:"success"`
	BookingRef    string `json:"bookingRef,omitempty"`
	FailureKind   string `json:"failureKind,omitempty"`
	FailureReason string `json:"failureReason,omitempty"`
}

// Activity inputs and results
type CheckBookingInput struct {
	PassengerID int       `json:"passengerId"`
	FlightID    int       `json:"flightId"`
	SeatClass   SeatClass `json:"seatClass"`
}

type ReserveSeatInput struct {
	FlightID  int       `json:"flightId"`
	SeatClass SeatClass `json:"seatClass"`
}

type ConfirmTicketInput struct {
	PassengerID int       `json:"passengerId"`
	FlightID    int       `json:"flightId"`
	SeatClass   SeatClass `json:"seatClass"`
}

type ConfirmTicketResult struct {
	BookingRef string `json:"bookingRef"`
}

type ReleaseSeatInput struct {
	FlightID  int       `json:"flightId"`
	SeatClass SeatClass `json:"seatClass"`
	Reason    string    `json:"reason"`
}
