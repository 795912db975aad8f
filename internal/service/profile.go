package service

import (
	"context"
	"errors"
	"strings"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// ProfileService handles rider and operator profiles and rider vehicles.
type ProfileService struct {
	riderRepo    repository.RiderRepository
	operatorRepo repository.OperatorRepository
	vehicleRepo  repository.VehicleRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	riderRepo repository.RiderRepository,
	operatorRepo repository.OperatorRepository,
	vehicleRepo repository.VehicleRepository,
) *ProfileService {
	return &ProfileService{
		riderRepo:    riderRepo,
		operatorRepo: operatorRepo,
		vehicleRepo:  vehicleRepo,
	}
}

// Profile is the caller's own profile; exactly one field is set.
type Profile struct {
	Rider    *domain.Rider
	Operator *domain.Operator
}

// GetProfile returns the caller's profile.
func (s *ProfileService) GetProfile(ctx context.Context, p domain.Principal) (*Profile, error) {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		rider, err := s.riderRepo.GetByID(ctx, v.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRiderNotFound
			}
			return nil, err
		}
		return &Profile{Rider: rider}, nil
	case domain.OperatorPrincipal:
		op, err := s.operatorRepo.GetByID(ctx, v.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrOperatorNotFound
			}
			return nil, err
		}
		return &Profile{Operator: op}, nil
	default:
		return nil, ErrForbidden
	}
}

// UpdateProfileInput holds editable profile fields. Nil fields are left
// unchanged. Address applies to riders, LicenseDoc to operators.
type UpdateProfileInput struct {
	Name       *string
	Phone      *string
	Address    *string
	LicenseDoc *string
}

// UpdateProfile updates the caller's profile. Email is immutable.
func (s *ProfileService) UpdateProfile(ctx context.Context, p domain.Principal, in UpdateProfileInput) (*Profile, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, ErrInvalidProfile
	}

	current, err := s.GetProfile(ctx, p)
	if err != nil {
		return nil, err
	}

	if rider := current.Rider; rider != nil {
		applyString(&rider.Name, in.Name)
		applyString(&rider.Phone, in.Phone)
		applyString(&rider.Address, in.Address)
		if err := s.riderRepo.UpdateProfile(ctx, rider); err != nil {
			return nil, err
		}
		return current, nil
	}

	op := current.Operator
	applyString(&op.Name, in.Name)
	applyString(&op.Phone, in.Phone)
	applyString(&op.LicenseDoc, in.LicenseDoc)
	if err := s.operatorRepo.UpdateProfile(ctx, op); err != nil {
		return nil, err
	}
	return current, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// VehicleInput contains the fields of a rider vehicle.
type VehicleInput struct {
	Company            string
	Name               string
	Model              string
	RegistrationNumber string
}

func (in VehicleInput) normalize() (VehicleInput, error) {
	out := VehicleInput{
		Company:            strings.TrimSpace(in.Company),
		Name:               strings.TrimSpace(in.Name),
		Model:              strings.TrimSpace(in.Model),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(in.RegistrationNumber)),
	}
	if out.Company == "" || out.Name == "" || out.Model == "" || out.RegistrationNumber == "" {
		return out, ErrInvalidVehicle
	}
	return out, nil
}

// AddVehicle registers a vehicle for the calling rider.
func (s *ProfileService) AddVehicle(ctx context.Context, p domain.Principal, in VehicleInput) (*domain.Vehicle, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	v := &domain.Vehicle{
		RiderID:            rider.ID,
		Company:            in.Company,
		Name:               in.Name,
		Model:              in.Model,
		RegistrationNumber: in.RegistrationNumber,
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateVehicle
		}
		return nil, err
	}
	return v, nil
}

// ListVehicles returns the calling rider's vehicles.
func (s *ProfileService) ListVehicles(ctx context.Context, p domain.Principal) ([]*domain.Vehicle, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}
	return s.vehicleRepo.ListByRider(ctx, rider.ID)
}

// UpdateVehicle replaces the fields of one of the calling rider's vehicles.
func (s *ProfileService) UpdateVehicle(ctx context.Context, p domain.Principal, id int64, in VehicleInput) (*domain.Vehicle, error) {
	v, err := s.ownVehicle(ctx, p, id)
	if err != nil {
		return nil, err
	}

	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	v.Company = in.Company
	v.Name = in.Name
	v.Model = in.Model
	v.RegistrationNumber = in.RegistrationNumber
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateVehicle
		}
		return nil, err
	}
	return v, nil
}

// DeleteVehicle removes one of the calling rider's vehicles. Vehicles named
// by requests cannot be deleted.
func (s *ProfileService) DeleteVehicle(ctx context.Context, p domain.Principal, id int64) error {
	if _, err := s.ownVehicle(ctx, p, id); err != nil {
		return err
	}

	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrVehicleNotFound
		case errors.Is(err, repository.ErrReferenced):
			return ErrVehicleInUse
		}
		return err
	}
	return nil
}

func (s *ProfileService) ownVehicle(ctx context.Context, p domain.Principal, id int64) (*domain.Vehicle, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}

	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if v.RiderID != rider.ID {
		return nil, ErrVehicleNotFound
	}
	return v, nil
}
