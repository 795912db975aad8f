package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// RequestService handles the request ledger: creating and reading charging
// requests. Status changes belong to BookingService.
type RequestService struct {
	requestRepo  repository.RequestRepository
	vehicleRepo  repository.VehicleRepository
	operatorRepo repository.OperatorRepository
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requestRepo repository.RequestRepository,
	vehicleRepo repository.VehicleRepository,
	operatorRepo repository.OperatorRepository,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		vehicleRepo:  vehicleRepo,
		operatorRepo: operatorRepo,
	}
}

// CreateRequestInput contains the parameters for creating a request.
type CreateRequestInput struct {
	VehicleID  int64
	Latitude   decimal.Decimal
	Longitude  decimal.Decimal
	OperatorID *int64 // Optional: address the request to an operator directly
}

// CreateRequest records a new pending request for the calling rider.
func (s *RequestService) CreateRequest(ctx context.Context, p domain.Principal, in CreateRequestInput) (*domain.Request, error) {
	rider, ok := p.(domain.RiderPrincipal)
	if !ok {
		return nil, ErrRiderOnly
	}

	if !domain.ValidCoordinates(in.Latitude, in.Longitude) {
		return nil, ErrInvalidLocation
	}
	lat := in.Latitude.Round(domain.CoordinatePlaces)
	lng := in.Longitude.Round(domain.CoordinatePlaces)

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVehicleNotOwned
		}
		return nil, err
	}
	if vehicle.RiderID != rider.ID {
		return nil, ErrVehicleNotOwned
	}

	if in.OperatorID != nil {
		if _, err := s.operatorRepo.GetByID(ctx, *in.OperatorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUnknownOperator
			}
			return nil, err
		}
	}

	req := &domain.Request{
		RiderID:    rider.ID,
		OperatorID: in.OperatorID,
		VehicleID:  vehicle.ID,
		Latitude:   lat,
		Longitude:  lng,
		Status:     domain.RequestStatusPending,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"rider_id":   rider.ID,
	}).Info("charging request created")

	return req, nil
}

// ListRequests returns the requests visible to the caller: a rider's own,
// those addressed to an operator, or all for an admin.
func (s *RequestService) ListRequests(ctx context.Context, p domain.Principal) ([]*domain.Request, error) {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		return s.requestRepo.List(ctx, repository.ByRider(v.ID))
	case domain.OperatorPrincipal:
		return s.requestRepo.List(ctx, repository.ByOperator(v.ID))
	case domain.AdminPrincipal:
		return s.requestRepo.List(ctx, repository.Filter{})
	default:
		return nil, ErrForbidden
	}
}

// GetRequest retrieves a request visible to the caller.
func (s *RequestService) GetRequest(ctx context.Context, p domain.Principal, id int64) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	if !canViewRequest(p, req) {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func canViewRequest(p domain.Principal, req *domain.Request) bool {
	switch v := p.(type) {
	case domain.RiderPrincipal:
		return req.RiderID == v.ID
	case domain.OperatorPrincipal:
		return req.AddressedTo(v.ID)
	case domain.AdminPrincipal:
		return true
	default:
		return false
	}
}

// AssignOperator addresses a pending request to an operator. This is the
// out-of-band assignment done by the back office.
func (s *RequestService) AssignOperator(ctx context.Context, p domain.Principal, requestID, operatorID int64) (*domain.Request, error) {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return nil, ErrAdminOnly
	}

	if _, err := s.operatorRepo.GetByID(ctx, operatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownOperator
		}
		return nil, err
	}

	assigned, err := s.requestRepo.AssignOperator(ctx, requestID, operatorID)
	if err != nil {
		return nil, err
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if !assigned {
		return nil, ErrRequestNotPending
	}

	logrus.WithFields(logrus.Fields{
		"request_id":  requestID,
		"operator_id": operatorID,
	}).Info("request assigned to operator")

	return req, nil
}
