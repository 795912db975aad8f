package tests

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

func TestFleet_SetOperatorStatus(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		input   string
		want    domain.OperatorStatus
		wantErr error
	}{
		{"online", domain.OperatorStatusOnline, nil},
		{"OFFLINE", domain.OperatorStatusOffline, nil},
		{"1", domain.OperatorStatusOnline, nil},
		{"0", domain.OperatorStatusOffline, nil},
		{"busy", "", service.ErrInvalidOperatorStatus},
	}

	for _, tt := range tests {
		op, err := f.fleetService.SetOperatorStatus(ctx, operator, tt.input)
		if err != tt.wantErr {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.wantErr, err)
			continue
		}
		if err != nil {
			continue
		}
		if op.Status != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.want, op.Status)
		}
		if got := f.cache.IsOnline(operatorID); got != (tt.want == domain.OperatorStatusOnline) {
			t.Errorf("%q: online set membership %v", tt.input, got)
		}
	}

	_, err := f.fleetService.SetOperatorStatus(ctx, rider, "online")
	expectError(t, err, service.ErrOperatorOnly)
}

func TestFleet_OfflineDoesNotTouchPendingRequests(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	req := f.createRequest(t, operatorID)

	if _, err := f.fleetService.SetOperatorStatus(context.Background(), operator, "offline"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.requests.GetRequest(req.ID).Status; got != domain.RequestStatusPending {
		t.Errorf("expected PENDING, got %s", got)
	}
}

func TestFleet_OnlineSetCacheFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cache.OnlineError = ErrMockTimeout

	op, err := f.fleetService.SetOperatorStatus(context.Background(), operator, "online")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Status != domain.OperatorStatusOnline {
		t.Errorf("expected ONLINE, got %s", op.Status)
	}
}

func TestFleet_TrackOperatorUsesCache(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.fleetService.TrackOperator(ctx, rider, operatorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Name != "Op One" {
		t.Errorf("expected Op One, got %s", first.Name)
	}
	if !f.cache.IsCached(operatorID) {
		t.Fatal("expected operator to be cached after first lookup")
	}

	dbCalls := f.operators.GetByIDCallCount
	if _, err := f.fleetService.TrackOperator(ctx, rider, operatorID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.operators.GetByIDCallCount != dbCalls {
		t.Error("second lookup should be served from cache")
	}

	// A status change invalidates the cached entry.
	if _, err := f.fleetService.SetOperatorStatus(ctx, operator, "online"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tracked, err := f.fleetService.TrackOperator(ctx, rider, operatorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracked.Status != domain.OperatorStatusOnline {
		t.Errorf("expected ONLINE after invalidation, got %s", tracked.Status)
	}

	_, err = f.fleetService.TrackOperator(ctx, rider, 777)
	expectError(t, err, service.ErrOperatorNotFound)
}

func TestFleet_TrackOperatorFallsBackToDatabase(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cache.GetError = ErrMockTimeout

	tracked, err := f.fleetService.TrackOperator(context.Background(), rider, operatorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tracked.OperatorID != operatorID {
		t.Errorf("expected operator %d, got %d", operatorID, tracked.OperatorID)
	}
}

func TestFleet_OnlineOperators(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.fleetService.SetOperatorStatus(ctx, operator, "online"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Stale set entry: the table says offline.
	_ = f.cache.AddOnlineOperator(ctx, operator2)

	online, err := f.fleetService.OnlineOperators(ctx, rider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(online) != 1 || online[0].ID != operatorID {
		t.Errorf("expected only operator %d online, got %+v", operatorID, online)
	}

	noCache := service.NewFleetService(f.operators, f.vans, nil)
	online, err = noCache.OnlineOperators(ctx, rider)
	if err != nil || len(online) != 0 {
		t.Errorf("expected empty list without cache, got %d (%v)", len(online), err)
	}
}

func TestFleet_CacheInvalidationFailureIsLogged(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.cache.InvalidateError = ErrMockTimeout
	hook := logtest.NewGlobal()
	ctx := context.Background()

	if _, err := f.fleetService.SetOperatorStatus(ctx, operator, "online"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.fleetService.SetVerification(ctx, admin, operatorID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level != logrus.WarnLevel || entry.Message != "failed to invalidate operator cache" {
			continue
		}
		if id, _ := entry.Data["operator_id"].(int64); id == operatorID {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("expected 2 invalidation warnings, got %d", warnings)
	}
}

func TestFleet_Verification(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.fleetService.SetVerification(ctx, operator, operatorID, true)
	expectError(t, err, service.ErrAdminOnly)

	op, err := f.fleetService.SetVerification(ctx, admin, operatorID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if op.Verification != domain.VerificationVerified {
		t.Errorf("expected VERIFIED, got %s", op.Verification)
	}

	_, err = f.fleetService.SetVerification(ctx, admin, 777, true)
	expectError(t, err, service.ErrOperatorNotFound)
}

func TestFleet_VanAssignment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.fleetService.RegisterVan(ctx, operator, service.RegisterVanInput{VanNumber: "VAN-1"})
	expectError(t, err, service.ErrAdminOnly)

	_, err = f.fleetService.RegisterVan(ctx, admin, service.RegisterVanInput{VanNumber: "   "})
	expectError(t, err, service.ErrInvalidVan)

	van1, err := f.fleetService.RegisterVan(ctx, admin, service.RegisterVanInput{VanNumber: "VAN-1", BatteryCapacity: "60 kWh"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	van2, err := f.fleetService.RegisterVan(ctx, admin, service.RegisterVanInput{VanNumber: "VAN-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = f.fleetService.RegisterVan(ctx, admin, service.RegisterVanInput{VanNumber: "VAN-1"})
	expectError(t, err, service.ErrDuplicateVan)

	_, err = f.fleetService.VanForOperator(ctx, operator)
	expectError(t, err, service.ErrVanNotFound)

	assigned, err := f.fleetService.AssignVan(ctx, admin, van1.ID, operatorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assigned.OperatorID == nil || *assigned.OperatorID != operatorID {
		t.Error("expected van assigned to operator")
	}

	// One van per operator.
	_, err = f.fleetService.AssignVan(ctx, admin, van2.ID, operatorID)
	expectError(t, err, service.ErrVanAlreadyAssigned)

	_, err = f.fleetService.AssignVan(ctx, admin, van2.ID, 777)
	expectError(t, err, service.ErrUnknownOperator)

	mine, err := f.fleetService.VanForOperator(ctx, operator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mine.ID != van1.ID {
		t.Errorf("expected van %d, got %d", van1.ID, mine.ID)
	}

	unassigned, err := f.fleetService.UnassignVan(ctx, admin, van1.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unassigned.OperatorID != nil {
		t.Error("expected van detached")
	}
	_, err = f.fleetService.UnassignVan(ctx, admin, 9999)
	expectError(t, err, service.ErrVanNotFound)
}
