package tests

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
	"chargenow/internal/service"
)

// ──────────────────────────────────────────────
// REQUEST → BOOKING → PAYMENT LIFECYCLE
// ──────────────────────────────────────────────

func TestLifecycle_AcceptCreatesInProgressBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req := f.createRequest(t, operatorID)
	if req.Status != domain.RequestStatusPending {
		t.Fatalf("expected PENDING, got %s", req.Status)
	}

	booking, err := f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusAccepted {
		t.Errorf("expected request ACCEPTED, got %s", got)
	}
	if booking.Status != domain.BookingStatusInProgress {
		t.Errorf("expected booking IN_PROGRESS, got %s", booking.Status)
	}
	if booking.RequestID != req.ID {
		t.Errorf("expected booking for request %d, got %d", req.ID, booking.RequestID)
	}
	if !booking.OperatedBy(operatorID) {
		t.Errorf("expected booking operated by %d", operatorID)
	}
	if booking.RiderID != riderID {
		t.Errorf("expected rider %d, got %d", riderID, booking.RiderID)
	}
	if f.bookings.CountBookings() != 1 {
		t.Errorf("expected 1 booking, got %d", f.bookings.CountBookings())
	}
	if f.locks.IsLocked(req.ID) {
		t.Error("decision lock should be released after accept")
	}
}

func TestLifecycle_StartLeavesRequestAccepted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)

	started, err := f.bookingService.StartCharging(context.Background(), operator, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if started.Status != domain.BookingStatusStarted {
		t.Errorf("expected STARTED, got %s", started.Status)
	}
	if started.StartedAt.IsZero() {
		t.Error("expected started_at to be stamped")
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusAccepted {
		t.Errorf("expected request to stay ACCEPTED, got %s", got)
	}
}

func TestLifecycle_CompleteForcesRequestCompleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.StartCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	completed, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if completed.Status != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", completed.Status)
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusCompleted {
		t.Errorf("expected request COMPLETED, got %s", got)
	}
}

func TestLifecycle_CompleteDirectlyFromInProgress(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)

	completed, err := f.bookingService.CompleteCharging(context.Background(), operator, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if completed.Status != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", completed.Status)
	}
	if !completed.StartedAt.IsZero() {
		t.Error("skipping start should leave started_at empty")
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusCompleted {
		t.Errorf("expected request COMPLETED, got %s", got)
	}
}

func TestLifecycle_SecondOperatorCannotAcceptDecidedRequest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, _ := f.acceptedBooking(t)

	_, err := f.bookingService.AcceptRequest(context.Background(), domain.OperatorPrincipal{ID: operator2}, req.ID)
	expectError(t, err, service.ErrConflict)
	expectError(t, err, service.ErrRequestAlreadyDecided)

	if f.bookings.CountBookings() != 1 {
		t.Errorf("expected 1 booking, got %d", f.bookings.CountBookings())
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusAccepted {
		t.Errorf("expected request to stay ACCEPTED, got %s", got)
	}
}

func TestLifecycle_CancelAfterStartFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.StartCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.bookingService.CancelBooking(ctx, rider, booking.ID)
	expectError(t, err, service.ErrInvalidTransition)

	if got := f.bookings.GetBooking(booking.ID).Status; got != domain.BookingStatusStarted {
		t.Errorf("expected booking to stay STARTED, got %s", got)
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusAccepted {
		t.Errorf("expected request to stay ACCEPTED, got %s", got)
	}
}

func TestLifecycle_PaymentAgainstCompletedBookingIsPending(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payment, err := f.paymentService.RecordPayment(ctx, rider, service.RecordPaymentInput{
		BookingID: booking.ID,
		Amount:    decimal.NewFromInt(250),
		Method:    "UPI",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected PENDING, got %s", payment.Status)
	}
	if !payment.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("expected amount 250, got %s", payment.Amount)
	}
	if payment.Method != domain.PaymentMethodUPI {
		t.Errorf("expected UPI, got %s", payment.Method)
	}
	if payment.RiderID != riderID || payment.OperatorID != operatorID {
		t.Errorf("expected rider %d operator %d, got %d/%d", riderID, operatorID, payment.RiderID, payment.OperatorID)
	}
}

// ──────────────────────────────────────────────
// DECISION EDGE CASES
// ──────────────────────────────────────────────

func TestDecision_RejectCreatesNoBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)

	status, booking, err := f.bookingService.DecideRequest(context.Background(), operator, req.ID, service.ActionReject)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status != domain.RequestStatusRejected {
		t.Errorf("expected REJECTED, got %s", status)
	}
	if booking != nil {
		t.Error("reject must not return a booking")
	}
	if f.bookings.CountBookings() != 0 {
		t.Errorf("expected 0 bookings, got %d", f.bookings.CountBookings())
	}
}

func TestDecision_IsWriteOnce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		first  service.RequestAction
		second service.RequestAction
		want   domain.RequestStatus
	}{
		{"accept then reject", service.ActionAccept, service.ActionReject, domain.RequestStatusAccepted},
		{"accept then accept", service.ActionAccept, service.ActionAccept, domain.RequestStatusAccepted},
		{"reject then accept", service.ActionReject, service.ActionAccept, domain.RequestStatusRejected},
		{"reject then reject", service.ActionReject, service.ActionReject, domain.RequestStatusRejected},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			ctx := context.Background()
			req := f.createRequest(t, operatorID)

			if _, _, err := f.bookingService.DecideRequest(ctx, operator, req.ID, tt.first); err != nil {
				t.Fatalf("first decision failed: %v", err)
			}
			bookingsAfterFirst := f.bookings.CountBookings()

			_, _, err := f.bookingService.DecideRequest(ctx, operator, req.ID, tt.second)
			expectError(t, err, service.ErrRequestAlreadyDecided)

			if got := f.requests.GetRequest(req.ID).Status; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if f.bookings.CountBookings() != bookingsAfterFirst {
				t.Errorf("second decision changed booking count: %d -> %d", bookingsAfterFirst, f.bookings.CountBookings())
			}
		})
	}
}

func TestDecision_InvalidAction(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)

	_, _, err := f.bookingService.DecideRequest(context.Background(), operator, req.ID, service.RequestAction("approve"))
	expectError(t, err, service.ErrValidation)

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestDecision_NotAddressedToCaller(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)

	_, err := f.bookingService.AcceptRequest(context.Background(), domain.OperatorPrincipal{ID: operator2}, req.ID)
	expectError(t, err, service.ErrRequestNotAddressed)

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestDecision_UnaddressedRequestCannotBeAccepted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req, err := f.requestService.CreateRequest(context.Background(), rider, service.CreateRequestInput{
		VehicleID: vehicleID,
		Latitude:  decimal.RequireFromString("12.9716"),
		Longitude: decimal.RequireFromString("77.5946"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	expectError(t, err, service.ErrRequestNotAddressed)
}

func TestDecision_RequestNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.bookingService.AcceptRequest(context.Background(), operator, 999999)
	expectError(t, err, service.ErrRequestNotFound)
}

func TestDecision_RiderCannotDecide(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)

	_, err := f.bookingService.AcceptRequest(context.Background(), rider, req.ID)
	expectError(t, err, service.ErrForbidden)

	if n := f.locks.AcquireCallCount; n != 0 {
		t.Errorf("lock should not be taken for a forbidden caller, got %d acquires", n)
	}
}

func TestDecision_LockHeldElsewhere(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)
	f.locks.Hold(req.ID, time.Minute)

	_, err := f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	expectError(t, err, service.ErrDecisionInProgress)

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestDecision_LockStoreFailureFallsBackToConditionalUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.locks.AcquireError = ErrMockTimeout
	req := f.createRequest(t, operatorID)

	booking, err := f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != domain.BookingStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", booking.Status)
	}
}

func TestDecision_NoLockStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	bookingService := service.NewBookingService(f.tx, f.requests, f.bookings, nil)
	req := f.createRequest(t, operatorID)

	if _, err := bookingService.AcceptRequest(context.Background(), operator, req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.locks.AcquireCallCount != 0 {
		t.Error("nil lock store must not be used")
	}
}

func TestDecision_BookingFailureRollsBackAccept(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.bookings.CreateError = ErrMockDBConstraint
	req := f.createRequest(t, operatorID)

	_, err := f.bookingService.AcceptRequest(context.Background(), operator, req.ID)
	expectError(t, err, ErrMockDBConstraint)

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected request rolled back to PENDING, got %s", got)
	}
	if f.bookings.CountBookings() != 0 {
		t.Errorf("expected 0 bookings, got %d", f.bookings.CountBookings())
	}
	if f.tx.RollbackCount != 1 {
		t.Errorf("expected 1 rollback, got %d", f.tx.RollbackCount)
	}
}

func TestDecision_PendingRequestsDoNotExpire(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)
	ctx := context.Background()

	// Unrelated traffic must not touch a waiting request.
	other := f.createRequest(t, operator2)
	if _, err := f.bookingService.AcceptRequest(ctx, domain.OperatorPrincipal{ID: operator2}, other.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fleetService.SetOperatorStatus(ctx, operator, "offline"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected request to stay PENDING, got %s", got)
	}
}

// ──────────────────────────────────────────────
// CHARGING STEP EDGE CASES
// ──────────────────────────────────────────────

func TestCharging_WrongOperatorGetsNotFound(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()
	other := domain.OperatorPrincipal{ID: operator2}

	_, err := f.bookingService.StartCharging(ctx, other, booking.ID)
	expectError(t, err, service.ErrBookingNotFound)

	_, err = f.bookingService.CompleteCharging(ctx, other, booking.ID)
	expectError(t, err, service.ErrBookingNotFound)

	if got := f.bookings.GetBooking(booking.ID).Status; got != domain.BookingStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", got)
	}
}

func TestCharging_StartTwiceFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.StartCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.bookingService.StartCharging(ctx, operator, booking.ID)
	expectError(t, err, service.ErrInvalidTransition)
}

func TestCharging_CompleteTwiceFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID)
	expectError(t, err, service.ErrBookingTerminal)

	_, err = f.bookingService.StartCharging(ctx, operator, booking.ID)
	expectError(t, err, service.ErrInvalidTransition)
}

func TestCharging_CannotCompleteCancelledBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.CancelBooking(ctx, rider, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID)
	expectError(t, err, service.ErrBookingTerminal)

	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusCancelled {
		t.Errorf("expected request CANCELLED, got %s", got)
	}
}

func TestCharging_InvalidAction(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)

	_, err := f.bookingService.ChargingStep(context.Background(), operator, booking.ID, service.ChargingAction("pause"))
	expectError(t, err, service.ErrInvalidAction)
}

func TestCharging_RequestUpdateFailureRollsBackCompletion(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)
	f.requests.SetStatusError = ErrMockTimeout

	_, err := f.bookingService.CompleteCharging(context.Background(), operator, booking.ID)
	expectError(t, err, ErrMockTimeout)

	if got := f.bookings.GetBooking(booking.ID).Status; got != domain.BookingStatusInProgress {
		t.Errorf("expected booking rolled back to IN_PROGRESS, got %s", got)
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusAccepted {
		t.Errorf("expected request to stay ACCEPTED, got %s", got)
	}
}

// ──────────────────────────────────────────────
// CANCELLATION
// ──────────────────────────────────────────────

func TestCancel_InProgressBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req, booking := f.acceptedBooking(t)

	cancelled, err := f.bookingService.CancelBooking(context.Background(), rider, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected cancelled_at to be stamped")
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusCancelled {
		t.Errorf("expected request CANCELLED, got %s", got)
	}
}

func TestCancel_CompletedBookingFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	if _, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.bookingService.CancelBooking(ctx, rider, booking.ID)
	expectError(t, err, service.ErrBookingNotCancellable)

	if got := f.bookings.GetBooking(booking.ID).Status; got != domain.BookingStatusCompleted {
		t.Errorf("expected COMPLETED, got %s", got)
	}
}

func TestCancel_OnlyOriginatingRider(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	_, err := f.bookingService.CancelBooking(ctx, domain.RiderPrincipal{ID: otherRider}, booking.ID)
	expectError(t, err, service.ErrBookingNotFound)

	_, err = f.bookingService.CancelBooking(ctx, operator, booking.ID)
	expectError(t, err, service.ErrForbidden)

	if got := f.bookings.GetBooking(booking.ID).Status; got != domain.BookingStatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", got)
	}
}

// ──────────────────────────────────────────────
// VISIBILITY
// ──────────────────────────────────────────────

func TestBookings_ScopedToCaller(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	_, booking := f.acceptedBooking(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal domain.Principal
		wantCount int
	}{
		{"originating rider", rider, 1},
		{"other rider", domain.RiderPrincipal{ID: otherRider}, 0},
		{"booking operator", operator, 1},
		{"other operator", domain.OperatorPrincipal{ID: operator2}, 0},
		{"admin", admin, 1},
	}

	for _, tt := range tests {
		list, err := f.bookingService.ListBookings(ctx, tt.principal)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if len(list) != tt.wantCount {
			t.Errorf("%s: expected %d bookings, got %d", tt.name, tt.wantCount, len(list))
		}

		_, err = f.bookingService.GetBooking(ctx, tt.principal, booking.ID)
		if tt.wantCount == 1 && err != nil {
			t.Errorf("%s: expected to see booking, got %v", tt.name, err)
		}
		if tt.wantCount == 0 && err == nil {
			t.Errorf("%s: expected booking to be hidden", tt.name)
		}
	}
}

func TestInvariant_CompletedRequestHasOneCompletedBooking(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, booking := f.acceptedBooking(t)
		if i%2 == 0 {
			if _, err := f.bookingService.CompleteCharging(ctx, operator, booking.ID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	requests, _ := f.requests.List(ctx, repository.Filter{})
	bookings, _ := f.bookings.List(ctx, repository.Filter{})
	for _, req := range requests {
		if req.Status != domain.RequestStatusCompleted {
			continue
		}
		completed := 0
		for _, b := range bookings {
			if b.RequestID == req.ID && b.Status == domain.BookingStatusCompleted {
				completed++
			}
		}
		if completed != 1 {
			t.Errorf("request %d: expected 1 completed booking, got %d", req.ID, completed)
		}
	}
}
