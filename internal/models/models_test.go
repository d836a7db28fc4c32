package models

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassport(t *testing.T) {
	tests := []struct {
		name     string
		passport string
		valid    bool
	}{
		{name: "8 digits", passport: "12345678", valid: true},
		{name: "9 digits", passport: "123456789", valid: true},
		{name: "7 digits", passport: "1234567", valid: false},
		{name: "10 digits", passport: "1234567890", valid: false},
		{name: "letters", passport: "1234567A", valid: false},
		{name: "empty", passport: "", valid: false},
		{name: "non-ascii digits", passport: "١٢٣٤٥٦٧٨", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassport(tt.passport)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPassport)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	for in, want := range map[string]Gender{
		"M": GenderMale, "f": GenderFemale, "O": GenderOther, "female": GenderFemale, " Male ": GenderMale,
	} {
		got, err := ParseGender(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseGender("x")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateBaggage(t *testing.T) {
	tests := []struct {
		name    string
		weight  float64
		dims    [3]float64
		wantErr error
	}{
		{name: "within limits", weight: 20, dims: [3]float64{50, 40, 30}},
		{name: "exactly at limits", weight: 23, dims: [3]float64{58, 50, 50}},
		{name: "overweight", weight: 25, dims: [3]float64{50, 40, 30}, wantErr: ErrOverweight},
		{name: "oversize", weight: 10, dims: [3]float64{80, 50, 30}, wantErr: ErrOversize},
		{name: "zero weight", weight: 0, dims: [3]float64{50, 40, 30}, wantErr: ErrInvalidBaggage},
		{name: "negative dimension", weight: 10, dims: [3]float64{50, -1, 30}, wantErr: ErrInvalidBaggage},
		{name: "NaN weight", weight: math.NaN(), dims: [3]float64{50, 40, 30}, wantErr: ErrInvalidBaggage},
		{name: "NaN dimensions", weight: 20, dims: [3]float64{math.NaN(), math.NaN(), math.NaN()}, wantErr: ErrInvalidBaggage},
		{name: "infinite weight", weight: math.Inf(1), dims: [3]float64{50, 40, 30}, wantErr: ErrInvalidBaggage},
		{name: "infinite dimension", weight: 10, dims: [3]float64{math.Inf(1), 40, 30}, wantErr: ErrInvalidBaggage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaggage(tt.weight, tt.dims)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("book: %w", ErrNoSeats)

	assert.ErrorIs(t, err, ErrCapacity)
	assert.ErrorIs(t, err, ErrNoSeats)
	assert.False(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrOverweight), "specific sentinels of the same kind must not match each other")
	assert.Equal(t, KindCapacity, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestNotFoundHelpers(t *testing.T) {
	err := FlightNotFound(7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, ErrFlightNotFound)
	assert.EqualError(t, err, "flight not found: id 7")
}

func TestParseSeatClass(t *testing.T) {
	got, err := ParseSeatClass("Exec")
	require.NoError(t, err)
	assert.Equal(t, SeatClassExecutive, got)

	got, err = ParseSeatClass("economy")
	require.NoError(t, err)
	assert.Equal(t, SeatClassEconomy, got)

	_, err = ParseSeatClass("first")
	assert.ErrorIs(t, err, ErrInvalidSeatClass)
}

func TestPlane_RecountAndFleetType(t *testing.T) {
	p := &Plane{Model: "A320", ExecutiveSeats: 2, BusinessSeats: 4, EconomySeats: 10}
	p.Recount()

	assert.Equal(t, 16, p.TotalSeats)
	assert.Equal(t, FleetType{Model: "A320", ExecutiveSeats: 2, BusinessSeats: 4, EconomySeats: 10}, p.FleetType())
	assert.Equal(t, map[SeatClass]int{SeatClassExecutive: 2, SeatClassBusiness: 4, SeatClassEconomy: 10}, p.SeatMap())
}

func TestPassenger_CloneDoesNotAlias(t *testing.T) {
	flightID := 3
	class := SeatClassBusiness
	p := &Passenger{ID: 1, FlightID: &flightID, SeatClass: &class}

	c := p.Clone()
	*c.FlightID = 9
	*c.SeatClass = SeatClassEconomy

	assert.Equal(t, 3, *p.FlightID)
	assert.Equal(t, SeatClassBusiness, *p.SeatClass)
}
