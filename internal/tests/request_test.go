package tests

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

func TestRequest_CreateValidatesCoordinates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name     string
		lat, lng string
		wantErr  error
	}{
		{"bangalore", "12.9716", "77.5946", nil},
		{"north pole", "90", "0", nil},
		{"date line", "-45.5", "-180", nil},
		{"latitude too high", "90.000001", "0", service.ErrInvalidLocation},
		{"latitude just past the pole", "90.0000004", "0", service.ErrInvalidLocation},
		{"longitude just past the date line", "0", "-180.0000001", service.ErrInvalidLocation},
		{"latitude too low", "-91", "0", service.ErrInvalidLocation},
		{"longitude too high", "0", "180.5", service.ErrInvalidLocation},
		{"longitude too low", "0", "-181", service.ErrInvalidLocation},
	}

	for _, tt := range tests {
		_, err := f.requestService.CreateRequest(context.Background(), rider, service.CreateRequestInput{
			VehicleID: vehicleID,
			Latitude:  decimal.RequireFromString(tt.lat),
			Longitude: decimal.RequireFromString(tt.lng),
		})
		if err != tt.wantErr {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.wantErr, err)
		}
	}
}

func TestRequest_CreateRoundsToSixPlaces(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	req, err := f.requestService.CreateRequest(context.Background(), rider, service.CreateRequestInput{
		VehicleID: vehicleID,
		Latitude:  decimal.RequireFromString("12.97160049"),
		Longitude: decimal.RequireFromString("77.5946"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := decimal.RequireFromString("12.9716"); !req.Latitude.Equal(want) {
		t.Errorf("expected latitude %s, got %s", want, req.Latitude)
	}
	if req.OperatorID != nil {
		t.Error("expected unaddressed request")
	}
	if req.Status != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", req.Status)
	}
}

func TestRequest_VehicleMustBelongToRider(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.requestService.CreateRequest(ctx, domain.RiderPrincipal{ID: otherRider}, service.CreateRequestInput{
		VehicleID: vehicleID,
		Latitude:  decimal.RequireFromString("12.9716"),
		Longitude: decimal.RequireFromString("77.5946"),
	})
	expectError(t, err, service.ErrVehicleNotOwned)

	_, err = f.requestService.CreateRequest(ctx, rider, service.CreateRequestInput{
		VehicleID: 424242,
		Latitude:  decimal.RequireFromString("12.9716"),
		Longitude: decimal.RequireFromString("77.5946"),
	})
	expectError(t, err, service.ErrValidation)

	if f.requests.CreateCallCount != 0 {
		t.Errorf("expected no request persisted, got %d creates", f.requests.CreateCallCount)
	}
}

func TestRequest_UnknownOperatorRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.requestService.CreateRequest(context.Background(), rider, service.CreateRequestInput{
		VehicleID:  vehicleID,
		Latitude:   decimal.RequireFromString("12.9716"),
		Longitude:  decimal.RequireFromString("77.5946"),
		OperatorID: int64Ptr(777),
	})
	expectError(t, err, service.ErrUnknownOperator)
}

func TestRequest_OnlyRidersCreate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	for _, p := range []domain.Principal{operator, admin} {
		_, err := f.requestService.CreateRequest(context.Background(), p, service.CreateRequestInput{
			VehicleID: vehicleID,
			Latitude:  decimal.RequireFromString("12.9716"),
			Longitude: decimal.RequireFromString("77.5946"),
		})
		expectError(t, err, service.ErrForbidden)
	}
}

func TestRequest_VisibilityIsScoped(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	req := f.createRequest(t, operatorID)

	tests := []struct {
		name      string
		principal domain.Principal
		visible   bool
	}{
		{"owner", rider, true},
		{"other rider", domain.RiderPrincipal{ID: otherRider}, false},
		{"addressed operator", operator, true},
		{"other operator", domain.OperatorPrincipal{ID: operator2}, false},
		{"admin", admin, true},
	}

	for _, tt := range tests {
		_, err := f.requestService.GetRequest(ctx, tt.principal, req.ID)
		if tt.visible && err != nil {
			t.Errorf("%s: expected visible, got %v", tt.name, err)
		}
		if !tt.visible && err != service.ErrRequestNotFound {
			t.Errorf("%s: expected ErrRequestNotFound, got %v", tt.name, err)
		}

		list, err := f.requestService.ListRequests(ctx, tt.principal)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if got := len(list) == 1; got != tt.visible {
			t.Errorf("%s: expected visible=%v in list, got %d items", tt.name, tt.visible, len(list))
		}
	}
}

func TestRequest_AdminAssignsOperator(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.requestService.CreateRequest(ctx, rider, service.CreateRequestInput{
		VehicleID: vehicleID,
		Latitude:  decimal.RequireFromString("12.9716"),
		Longitude: decimal.RequireFromString("77.5946"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.requestService.AssignOperator(ctx, operator, req.ID, operatorID)
	expectError(t, err, service.ErrAdminOnly)

	_, err = f.requestService.AssignOperator(ctx, admin, req.ID, 777)
	expectError(t, err, service.ErrUnknownOperator)

	assigned, err := f.requestService.AssignOperator(ctx, admin, req.ID, operatorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assigned.AddressedTo(operatorID) {
		t.Error("expected request addressed to operator")
	}

	// Once addressed, the operator can decide it.
	if _, err := f.bookingService.AcceptRequest(ctx, operator, req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.requestService.AssignOperator(ctx, admin, req.ID, operator2)
	expectError(t, err, service.ErrRequestNotPending)

	_, err = f.requestService.AssignOperator(ctx, admin, 999999, operatorID)
	expectError(t, err, service.ErrRequestNotFound)
}
