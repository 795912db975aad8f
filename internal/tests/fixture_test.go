package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

const (
	riderID    int64 = 1
	otherRider int64 = 2
	operatorID int64 = 10
	operator2  int64 = 11
	vehicleID  int64 = 100
)

var (
	rider    = domain.RiderPrincipal{ID: riderID}
	operator = domain.OperatorPrincipal{ID: operatorID}
	admin    = domain.AdminPrincipal{}
)

// fixture wires every service over the mocks with one rider, one vehicle
// and two operators.
type fixture struct {
	requests  *MockRequestRepository
	bookings  *MockBookingRepository
	payments  *MockPaymentRepository
	feedback  *MockFeedbackRepository
	operators *MockOperatorRepository
	vans      *MockVanRepository
	riders    *MockRiderRepository
	vehicles  *MockVehicleRepository
	tx        *MockTransactor
	locks     *MockLockStore
	cache     *MockOperatorCache

	requestService  *service.RequestService
	bookingService  *service.BookingService
	paymentService  *service.PaymentService
	feedbackService *service.FeedbackService
	fleetService    *service.FleetService
	profileService  *service.ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		requests:  NewMockRequestRepository(),
		payments:  NewMockPaymentRepository(),
		feedback:  NewMockFeedbackRepository(),
		operators: NewMockOperatorRepository(),
		vans:      NewMockVanRepository(),
		riders:    NewMockRiderRepository(),
		locks:     NewMockLockStore(),
		cache:     NewMockOperatorCache(),
	}
	f.bookings = NewMockBookingRepository(f.requests)
	f.vehicles = NewMockVehicleRepository(f.requests)
	f.tx = NewMockTransactor(f.requests, f.bookings)

	f.riders.AddRider(&domain.Rider{ID: riderID, Name: "Asha", Email: "asha@example.com", Phone: "9000000001"})
	f.riders.AddRider(&domain.Rider{ID: otherRider, Name: "Ravi", Email: "ravi@example.com"})
	f.operators.AddOperator(&domain.Operator{ID: operatorID, Name: "Op One", Email: "op1@example.com", Phone: "9000000010"})
	f.operators.AddOperator(&domain.Operator{ID: operator2, Name: "Op Two", Email: "op2@example.com"})
	f.vehicles.AddVehicle(&domain.Vehicle{
		ID:                 vehicleID,
		RiderID:            riderID,
		Company:            "Tata",
		Name:               "Nexon",
		Model:              "EV Max",
		RegistrationNumber: "KA01AB1234",
	})

	f.requestService = service.NewRequestService(f.requests, f.vehicles, f.operators)
	f.bookingService = service.NewBookingService(f.tx, f.requests, f.bookings, f.locks)
	f.paymentService = service.NewPaymentService(f.payments, f.bookings)
	f.feedbackService = service.NewFeedbackService(f.feedback, f.operators, f.requests)
	f.fleetService = service.NewFleetService(f.operators, f.vans, f.cache)
	f.profileService = service.NewProfileService(f.riders, f.operators, f.vehicles)

	return f
}

// createRequest creates a request from the fixture rider addressed to opID.
func (f *fixture) createRequest(t *testing.T, opID int64) *domain.Request {
	t.Helper()
	req, err := f.requestService.CreateRequest(context.Background(), rider, service.CreateRequestInput{
		VehicleID:  vehicleID,
		Latitude:   decimal.RequireFromString("12.9716"),
		Longitude:  decimal.RequireFromString("77.5946"),
		OperatorID: int64Ptr(opID),
	})
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	return req
}

// acceptedBooking creates a request addressed to the fixture operator and
// accepts it.
func (f *fixture) acceptedBooking(t *testing.T) (*domain.Request, *domain.Booking) {
	t.Helper()
	req := f.createRequest(t, operatorID)
	booking, err := f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	if err != nil {
		t.Fatalf("failed to accept request: %v", err)
	}
	return req, booking
}

func expectError(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
