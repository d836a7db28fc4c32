package workflows

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/cx-tal-miterani/airport-operations/internal/activities"
	"github.com/cx-tal-miterani/airport-operations/internal/models"
)

type BookingWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *BookingWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	activities.NewActivities(nil).Register(s.env)
}

func (s *BookingWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestBookingWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(BookingWorkflowTestSuite))
}

var testInput = models.BookingWorkflowInput{
	PassengerID: 4,
	FlightID:    2,
	SeatClass:   models.SeatClassBusiness,
}

func domainError(err *models.Error) error {
	return temporal.NewNonRetryableApplicationError(err.Message, string(err.Kind), nil)
}

func (s *BookingWorkflowTestSuite) checkPasses() {
	s.env.OnActivity(models.ActivityCheckBooking, mock.Anything, models.CheckBookingInput{
		PassengerID: 4, FlightID: 2, SeatClass: models.SeatClassBusiness,
	}).Return(nil).Once()
}

func (s *BookingWorkflowTestSuite) result() *models.BookingWorkflowResult {
	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	var result models.BookingWorkflowResult
	s.NoError(s.env.GetWorkflowResult(&result))
	return &result
}

func (s *BookingWorkflowTestSuite) TestWorkflow_Success() {
	s.checkPasses()
	s.env.OnActivity(models.ActivityReserveSeat, mock.Anything, models.ReserveSeatInput{
		FlightID: 2, SeatClass: models.SeatClassBusiness,
	}).Return(nil).Once()
	s.env.OnActivity(models.ActivityConfirmTicket, mock.Anything, models.ConfirmTicketInput{
		PassengerID: 4, FlightID: 2, SeatClass: models.SeatClassBusiness,
	}).Return(&models.ConfirmTicketResult{BookingRef: "BK-1"}, nil).Once()

	s.env.ExecuteWorkflow(BookingWorkflow, testInput)

	result := s.result()
	s.True(result.Success)
	s.Equal("BK-1", result.BookingRef)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_NoSeats() {
	s.checkPasses()
	s.env.OnActivity(models.ActivityReserveSeat, mock.Anything, mock.Anything).Return(domainError(models.ErrNoSeats)).Once()

	s.env.ExecuteWorkflow(BookingWorkflow, testInput)

	result := s.result()
	s.False(result.Success)
	s.Equal(string(models.KindCapacity), result.FailureKind)
	s.Equal(models.ErrNoSeats.Message, result.FailureReason)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_ConfirmFailureReleasesSeat() {
	s.checkPasses()
	s.env.OnActivity(models.ActivityReserveSeat, mock.Anything, mock.Anything).Return(nil).Once()
	s.env.OnActivity(models.ActivityConfirmTicket, mock.Anything, mock.Anything).
		Return(nil, domainError(models.ErrAlreadyBooked)).Once()
	s.env.OnActivity(models.ActivityReleaseSeat, mock.Anything, models.ReleaseSeatInput{
		FlightID: 2, SeatClass: models.SeatClassBusiness, Reason: "ticket not confirmed",
	}).Return(nil).Once()

	s.env.ExecuteWorkflow(BookingWorkflow, testInput)

	result := s.result()
	s.False(result.Success)
	s.Equal(string(models.KindConflict), result.FailureKind)
	s.Equal(models.ErrAlreadyBooked.Message, result.FailureReason)
}

func (s *BookingWorkflowTestSuite) TestWorkflow_ReleaseFailureFailsWorkflow() {
	s.checkPasses()
	s.env.OnActivity(models.ActivityReserveSeat, mock.Anything, mock.Anything).Return(nil).Once()
	s.env.OnActivity(models.ActivityConfirmTicket, mock.Anything, mock.Anything).
		Return(nil, domainError(models.ErrPassengerNotFound)).Once()
	s.env.OnActivity(models.ActivityReleaseSeat, mock.Anything, mock.Anything).
		Return(domainError(models.ErrFlightNotFound)).Once()

	s.env.ExecuteWorkflow(BookingWorkflow, testInput)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
}

func (s *BookingWorkflowTestSuite) TestWorkflow_RejectedBeforeReservingSeat() {
	tests := []struct {
		name string
		err  *models.Error
	}{
		{name: "unknown passenger", err: models.ErrPassengerNotFound},
		{name: "passenger already booked", err: models.ErrAlreadyBooked},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			// ReserveSeat is left unmocked: reaching it would run against a nil ledger.
			env := s.NewTestWorkflowEnvironment()
			activities.NewActivities(nil).Register(env)
			env.OnActivity(models.ActivityCheckBooking, mock.Anything, mock.Anything).Return(domainError(tt.err)).Once()

			env.ExecuteWorkflow(BookingWorkflow, testInput)

			s.True(env.IsWorkflowCompleted())
			s.NoError(env.GetWorkflowError())
			var result models.BookingWorkflowResult
			s.NoError(env.GetWorkflowResult(&result))
			s.False(result.Success)
			s.Equal(string(tt.err.Kind), result.FailureKind)
			s.Equal(tt.err.Message, result.FailureReason)
			env.AssertExpectations(s.T())
		})
	}
}
