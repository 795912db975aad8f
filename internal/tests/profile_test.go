package tests

import (
	"context"
	"testing"

	"chargenow/internal/domain"
	"chargenow/internal/service"
)

func strPtr(s string) *string {
	return &s
}

func TestProfile_GetByRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.profileService.GetProfile(ctx, rider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Rider == nil || profile.Operator != nil {
		t.Fatal("expected rider profile only")
	}

	profile, err = f.profileService.GetProfile(ctx, operator)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Operator == nil || profile.Rider != nil {
		t.Fatal("expected operator profile only")
	}

	_, err = f.profileService.GetProfile(ctx, admin)
	expectError(t, err, service.ErrForbidden)

	_, err = f.profileService.GetProfile(ctx, domain.RiderPrincipal{ID: 999})
	expectError(t, err, service.ErrRiderNotFound)
}

func TestProfile_PartialUpdate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	profile, err := f.profileService.UpdateProfile(ctx, rider, service.UpdateProfileInput{
		Address: strPtr("  12 MG Road  "),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Rider.Address != "12 MG Road" {
		t.Errorf("expected trimmed address, got %q", profile.Rider.Address)
	}
	if profile.Rider.Name != "Asha" || profile.Rider.Email != "asha@example.com" {
		t.Error("untouched fields must be preserved")
	}

	_, err = f.profileService.UpdateProfile(ctx, rider, service.UpdateProfileInput{Name: strPtr(" ")})
	expectError(t, err, service.ErrInvalidProfile)

	opProfile, err := f.profileService.UpdateProfile(ctx, operator, service.UpdateProfileInput{
		LicenseDoc: strPtr("licenses/op1.pdf"),
		Address:    strPtr("ignored for operators"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opProfile.Operator.LicenseDoc != "licenses/op1.pdf" {
		t.Errorf("expected license doc set, got %q", opProfile.Operator.LicenseDoc)
	}
}

func TestVehicles_CRUD(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.profileService.AddVehicle(ctx, rider, service.VehicleInput{
		Company:            "MG",
		Name:               "ZS",
		Model:              "EV",
		RegistrationNumber: " ka05mn0001 ",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.RegistrationNumber != "KA05MN0001" {
		t.Errorf("expected normalized registration, got %q", v.RegistrationNumber)
	}

	_, err = f.profileService.AddVehicle(ctx, rider, service.VehicleInput{Company: "MG", Name: "ZS", Model: "EV", RegistrationNumber: "KA05MN0001"})
	expectError(t, err, service.ErrDuplicateVehicle)

	_, err = f.profileService.AddVehicle(ctx, rider, service.VehicleInput{Company: "MG", RegistrationNumber: "X"})
	expectError(t, err, service.ErrInvalidVehicle)

	_, err = f.profileService.AddVehicle(ctx, operator, service.VehicleInput{Company: "MG", Name: "ZS", Model: "EV", RegistrationNumber: "Y"})
	expectError(t, err, service.ErrRiderOnly)

	list, err := f.profileService.ListVehicles(ctx, rider)
	if err != nil || len(list) != 2 {
		t.Fatalf("expected 2 vehicles, got %d (%v)", len(list), err)
	}

	updated, err := f.profileService.UpdateVehicle(ctx, rider, v.ID, service.VehicleInput{Company: "MG", Name: "ZS", Model: "EV Pro", RegistrationNumber: "KA05MN0001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Model != "EV Pro" {
		t.Errorf("expected model updated, got %q", updated.Model)
	}

	_, err = f.profileService.UpdateVehicle(ctx, domain.RiderPrincipal{ID: otherRider}, v.ID, service.VehicleInput{Company: "A", Name: "B", Model: "C", RegistrationNumber: "D"})
	expectError(t, err, service.ErrVehicleNotFound)

	if err := f.profileService.DeleteVehicle(ctx, rider, v.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectError(t, f.profileService.DeleteVehicle(ctx, rider, v.ID), service.ErrVehicleNotFound)
}

func TestVehicles_InUseCannotBeDeleted(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.createRequest(t, operatorID)

	err := f.profileService.DeleteVehicle(context.Background(), rider, vehicleID)
	expectError(t, err, service.ErrVehicleInUse)
}
