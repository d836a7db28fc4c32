package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

func TestCoordinator_Book(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")

	booked, err := f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassEconomy)
	require.NoError(t, err)
	require.NotNil(t, booked.FlightID)
	assert.Equal(t, fl.ID, *booked.FlightID)
	assert.Equal(t, models.SeatClassEconomy, *booked.SeatClass)
	assert.Equal(t, models.TicketStatusConfirmed, booked.TicketStatus)
	assert.NotEmpty(t, booked.BookingRef)

	got, _ := f.flights.FindByID(fl.ID)
	assert.Equal(t, map[models.SeatClass]int{
		models.SeatClassExecutive: 2,
		models.SeatClassBusiness:  4,
		models.SeatClassEconomy:   9,
	}, got.AvailableSeats, "exactly one seat in exactly one class is taken")
}

func TestCoordinator_SecondBookingLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plane := f.addPlane(t, "A320", 2, 4, 10)
	first := f.addFlight(t, plane.ID)
	second := f.addFlight(t, plane.ID)
	p := f.addPassenger(t, "Ana", "12345678")

	_, err := f.coordinator.Book(ctx, p.ID, first.ID, models.SeatClassBusiness)
	require.NoError(t, err)
	passengerBefore, _ := f.passengers.Get(p.ID)
	flightsBefore := f.flights.List()

	for _, target := range []int{first.ID, second.ID} {
		_, err = f.coordinator.Book(ctx, p.ID, target, models.SeatClassEconomy)
		assert.ErrorIs(t, err, models.ErrConflict)
		assert.ErrorIs(t, err, models.ErrAlreadyBooked)
	}

	passengerAfter, _ := f.passengers.Get(p.ID)
	assert.Equal(t, passengerBefore, passengerAfter)
	assert.Equal(t, flightsBefore, f.flights.List())
}

func TestCoordinator_BookFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")

	_, err := f.coordinator.Book(ctx, 99, fl.ID, models.SeatClassEconomy)
	assert.ErrorIs(t, err, models.ErrPassengerNotFound)

	_, err = f.coordinator.Book(ctx, p.ID, 99, models.SeatClassEconomy)
	assert.ErrorIs(t, err, models.ErrFlightNotFound)

	_, err = f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClass("first"))
	assert.ErrorIs(t, err, models.ErrValidation)

	got, _ := f.passengers.Get(p.ID)
	assert.False(t, got.HasBooking())
	assert.Equal(t, models.TicketStatusPending, got.TicketStatus)
}

func TestCoordinator_ExhaustedClass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)

	passports := []string{"10000001", "10000002", "10000003", "10000004", "10000005", "10000006"}
	var ids []int
	for _, pp := range passports {
		ids = append(ids, f.addPassenger(t, "P"+pp, pp).ID)
	}

	for _, id := range ids[:3] {
		_, err := f.coordinator.Book(ctx, id, fl.ID, models.SeatClassEconomy)
		require.NoError(t, err)
	}
	for _, id := range ids[3:5] {
		_, err := f.coordinator.Book(ctx, id, fl.ID, models.SeatClassExecutive)
		require.NoError(t, err)
	}

	_, err := f.coordinator.Book(ctx, ids[5], fl.ID, models.SeatClassExecutive)
	assert.ErrorIs(t, err, models.ErrCapacity)
	assert.ErrorIs(t, err, models.ErrNoSeats)

	got, _ := f.flights.FindByID(fl.ID)
	assert.Equal(t, 7, got.AvailableSeats[models.SeatClassEconomy])
	assert.Equal(t, 0, got.AvailableSeats[models.SeatClassExecutive])

	loser, _ := f.passengers.Get(ids[5])
	assert.False(t, loser.HasBooking())
	assert.Equal(t, models.TicketStatusPending, loser.TicketStatus)
}

func TestCoordinator_BookIsAtomicUnderPersistFailure(t *testing.T) {
	tests := []struct {
		name       string
		collection string
	}{
		{name: "flight save fails", collection: storage.CollectionFlights},
		{name: "passenger save fails", collection: storage.CollectionPassengers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
			p := f.addPassenger(t, "Ana", "12345678")

			f.backend.fail(tt.collection, true)
			_, err := f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassEconomy)
			require.ErrorIs(t, err, errDiskFull)
			f.backend.fail(tt.collection, false)

			got, _ := f.passengers.Get(p.ID)
			assert.False(t, got.HasBooking())
			assert.Equal(t, models.TicketStatusPending, got.TicketStatus)
			gotFlight, _ := f.flights.FindByID(fl.ID)
			assert.Equal(t, 10, gotFlight.AvailableSeats[models.SeatClassEconomy])

			reloaded := newFixtureOn(t, f.backend)
			persisted, _ := reloaded.flights.FindByID(fl.ID)
			assert.Equal(t, 10, persisted.AvailableSeats[models.SeatClassEconomy], "persisted inventory is restored too")
			persistedPassenger, _ := reloaded.passengers.Get(p.ID)
			assert.False(t, persistedPassenger.HasBooking())
		})
	}
}

func TestCoordinator_CancelReleasesSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")

	_, err := f.coordinator.Cancel(ctx, p.ID)
	assert.ErrorIs(t, err, models.ErrNotBooked)

	_, err = f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassBusiness)
	require.NoError(t, err)

	cancelled, err := f.coordinator.Cancel(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.HasBooking())
	assert.Equal(t, models.TicketStatusCancelled, cancelled.TicketStatus)

	got, _ := f.flights.FindByID(fl.ID)
	assert.Equal(t, 4, got.AvailableSeats[models.SeatClassBusiness])

	_, err = f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassBusiness)
	assert.NoError(t, err, "a cancelled passenger can book again")
}

func TestCoordinator_RemovePassengerReturnsSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")
	_, err := f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassExecutive)
	require.NoError(t, err)

	f.backend.fail(storage.CollectionPassengers, true)
	assert.ErrorIs(t, f.coordinator.RemovePassenger(ctx, p.ID), errDiskFull)
	f.backend.fail(storage.CollectionPassengers, false)
	got, _ := f.flights.FindByID(fl.ID)
	assert.Equal(t, 1, got.AvailableSeats[models.SeatClassExecutive])

	require.NoError(t, f.coordinator.RemovePassenger(ctx, p.ID))
	got, _ = f.flights.FindByID(fl.ID)
	assert.Equal(t, 2, got.AvailableSeats[models.SeatClassExecutive])
	_, err = f.passengers.Get(p.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCoordinator_RemoveFlightCancelsBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")
	_, err := f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassEconomy)
	require.NoError(t, err)

	require.NoError(t, f.coordinator.RemoveFlight(ctx, fl.ID))

	_, err = f.flights.FindByID(fl.ID)
	assert.ErrorIs(t, err, models.ErrFlightNotFound)
	got, _ := f.passengers.Get(p.ID)
	assert.False(t, got.HasBooking())
	assert.Equal(t, models.TicketStatusCancelled, got.TicketStatus)

	assert.ErrorIs(t, f.coordinator.RemoveFlight(ctx, fl.ID), models.ErrNotFound)
}

func TestCoordinator_RemovePlaneRefusedWhileFlown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plane := f.addPlane(t, "A320", 2, 4, 10)
	idle := f.addPlane(t, "E190", 0, 0, 90)
	fl := f.addFlight(t, plane.ID)

	err := f.coordinator.RemovePlane(ctx, plane.ID)
	assert.ErrorIs(t, err, models.ErrPlaneInUse)
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, f.planes.List(), 2)
	assert.Equal(t, 1, f.planes.FleetTypeCount(plane.FleetType()))

	require.NoError(t, f.coordinator.RemovePlane(ctx, idle.ID))
	assert.ErrorIs(t, f.coordinator.RemovePlane(ctx, idle.ID), models.ErrPlaneNotFound)

	require.NoError(t, f.coordinator.RemoveFlight(ctx, fl.ID))
	require.NoError(t, f.coordinator.RemovePlane(ctx, plane.ID))
	assert.Empty(t, f.planes.List())
}

func TestCoordinator_ClearDanglingBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	plane := f.addPlane(t, "A320", 2, 4, 10)
	kept := f.addFlight(t, plane.ID)
	lost := f.addFlight(t, plane.ID)
	ana := f.addPassenger(t, "Ana", "12345678")
	rui := f.addPassenger(t, "Rui", "87654321")
	_, err := f.coordinator.Book(ctx, ana.ID, kept.ID, models.SeatClassEconomy)
	require.NoError(t, err)
	_, err = f.coordinator.Book(ctx, rui.ID, lost.ID, models.SeatClassBusiness)
	require.NoError(t, err)

	// The flight ledger alone forgets the flight, as a dropped load would.
	require.NoError(t, f.flights.Remove(ctx, lost.ID))

	ids, err := f.coordinator.ClearDanglingBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{rui.ID}, ids)

	got, _ := f.passengers.Get(rui.ID)
	assert.False(t, got.HasBooking())
	assert.Equal(t, models.TicketStatusCancelled, got.TicketStatus)
	got, _ = f.passengers.Get(ana.ID)
	assert.True(t, got.HasBooking(), "bookings on known flights are kept")

	reloaded := newFixtureOn(t, f.backend)
	got, _ = reloaded.passengers.Get(rui.ID)
	assert.False(t, got.HasBooking(), "the cancellation is persisted")

	ids, err = f.coordinator.ClearDanglingBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCoordinator_ClearDanglingBookingsRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fl := f.addFlight(t, f.addPlane(t, "A320", 2, 4, 10).ID)
	p := f.addPassenger(t, "Ana", "12345678")
	_, err := f.coordinator.Book(ctx, p.ID, fl.ID, models.SeatClassEconomy)
	require.NoError(t, err)
	require.NoError(t, f.flights.Remove(ctx, fl.ID))

	f.backend.fail(storage.CollectionPassengers, true)
	_, err = f.coordinator.ClearDanglingBookings(ctx)
	assert.ErrorIs(t, err, errDiskFull)

	got, _ := f.passengers.Get(p.ID)
	assert.True(t, got.HasBooking(), "a failed save leaves the passenger untouched")
}
