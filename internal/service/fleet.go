package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"chargenow/internal/domain"
	"chargenow/internal/redis"
	"chargenow/internal/repository"
)

// FleetService handles operators and vans.
type FleetService struct {
	operatorRepo repository.OperatorRepository
	vanRepo      repository.VanRepository
	cacheStore   redis.OperatorCacheInterface
}

// NewFleetService creates a new FleetService. cacheStore may be nil.
func NewFleetService(
	operatorRepo repository.OperatorRepository,
	vanRepo repository.VanRepository,
	cacheStore redis.OperatorCacheInterface,
) *FleetService {
	return &FleetService{
		operatorRepo: operatorRepo,
		vanRepo:      vanRepo,
		cacheStore:   cacheStore,
	}
}

// SetOperatorStatus switches the calling operator online or offline. Pending
// requests addressed to the operator are left untouched.
func (s *FleetService) SetOperatorStatus(ctx context.Context, p domain.Principal, status string) (*domain.Operator, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	parsed, ok := domain.ParseOperatorStatus(status)
	if !ok {
		return nil, ErrInvalidOperatorStatus
	}

	if err := s.operatorRepo.UpdateStatus(ctx, op.ID, parsed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	if s.cacheStore != nil {
		var err error
		if parsed == domain.OperatorStatusOnline {
			err = s.cacheStore.AddOnlineOperator(ctx, op.ID)
		} else {
			err = s.cacheStore.RemoveOnlineOperator(ctx, op.ID)
		}
		if err != nil {
			logrus.WithError(err).WithField("operator_id", op.ID).Warn("failed to update online operator set")
		}
		s.invalidateOperator(ctx, op.ID)
	}

	logrus.WithFields(logrus.Fields{
		"operator_id": op.ID,
		"status":      parsed,
	}).Info("operator status changed")

	return s.operatorRepo.GetByID(ctx, op.ID)
}

func (s *FleetService) invalidateOperator(ctx context.Context, operatorID int64) {
	if err := s.cacheStore.InvalidateOperator(ctx, operatorID); err != nil {
		logrus.WithError(err).WithField("operator_id", operatorID).Warn("failed to invalidate operator cache")
	}
}

// SetVerification marks an operator verified or not. Admin only.
func (s *FleetService) SetVerification(ctx context.Context, p domain.Principal, operatorID int64, verified bool) (*domain.Operator, error) {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return nil, ErrAdminOnly
	}

	v := domain.VerificationNotVerified
	if verified {
		v = domain.VerificationVerified
	}

	if err := s.operatorRepo.UpdateVerification(ctx, operatorID, v); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	if s.cacheStore != nil {
		s.invalidateOperator(ctx, operatorID)
	}

	return s.operatorRepo.GetByID(ctx, operatorID)
}

// OperatorStatus is the tracking view of an operator.
type OperatorStatus struct {
	OperatorID   int64
	Name         string
	Phone        string
	Status       domain.OperatorStatus
	Verification domain.VerificationStatus
}

// TrackOperator returns an operator's status, served from cache when
// available.
func (s *FleetService) TrackOperator(ctx context.Context, p domain.Principal, operatorID int64) (*OperatorStatus, error) {
	if p == nil {
		return nil, ErrForbidden
	}

	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetOperator(ctx, operatorID)
		if err == nil && cached != nil {
			return &OperatorStatus{
				OperatorID:   cached.ID,
				Name:         cached.Name,
				Phone:        cached.Phone,
				Status:       domain.OperatorStatus(cached.Status),
				Verification: domain.VerificationStatus(cached.Verification),
			}, nil
		}
	}

	op, err := s.operatorRepo.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetOperator(ctx, &redis.CachedOperator{
			ID:           op.ID,
			Name:         op.Name,
			Phone:        op.Phone,
			Status:       string(op.Status),
			Verification: string(op.Verification),
		})
	}

	return &OperatorStatus{
		OperatorID:   op.ID,
		Name:         op.Name,
		Phone:        op.Phone,
		Status:       op.Status,
		Verification: op.Verification,
	}, nil
}

// OnlineOperators lists operators currently online, as tracked by the Redis
// online set. Without a cache the list is empty.
func (s *FleetService) OnlineOperators(ctx context.Context, p domain.Principal) ([]*domain.Operator, error) {
	if p == nil {
		return nil, ErrForbidden
	}
	if s.cacheStore == nil {
		return nil, nil
	}

	ids, err := s.cacheStore.GetOnlineOperators(ctx)
	if err != nil {
		return nil, err
	}

	operators, err := s.operatorRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// The set can lag behind the table; trust the persisted status.
	online := make([]*domain.Operator, 0, len(operators))
	for _, op := range operators {
		if op.Status == domain.OperatorStatusOnline {
			online = append(online, op)
		}
	}
	return online, nil
}

// RegisterVanInput contains the parameters for registering a van.
type RegisterVanInput struct {
	VanNumber       string
	BatteryCapacity string
}

// RegisterVan adds an unassigned van to the fleet. Admin only.
func (s *FleetService) RegisterVan(ctx context.Context, p domain.Principal, in RegisterVanInput) (*domain.Van, error) {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return nil, ErrAdminOnly
	}

	number := strings.TrimSpace(in.VanNumber)
	if number == "" {
		return nil, ErrInvalidVan
	}

	van := &domain.Van{
		VanNumber:       number,
		BatteryCapacity: strings.TrimSpace(in.BatteryCapacity),
	}
	if err := s.vanRepo.Create(ctx, van); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateVan
		}
		return nil, err
	}
	return van, nil
}

// AssignVan assigns a van to an operator. An operator holds at most one van.
// Admin only.
func (s *FleetService) AssignVan(ctx context.Context, p domain.Principal, vanID, operatorID int64) (*domain.Van, error) {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return nil, ErrAdminOnly
	}

	if _, err := s.operatorRepo.GetByID(ctx, operatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownOperator
		}
		return nil, err
	}

	if err := s.vanRepo.SetOperator(ctx, vanID, &operatorID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrVanNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrVanAlreadyAssigned
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"van_id":      vanID,
		"operator_id": operatorID,
	}).Info("van assigned")

	return s.vanRepo.GetByID(ctx, vanID)
}

// UnassignVan detaches a van from its operator. Admin only.
func (s *FleetService) UnassignVan(ctx context.Context, p domain.Principal, vanID int64) (*domain.Van, error) {
	if _, ok := p.(domain.AdminPrincipal); !ok {
		return nil, ErrAdminOnly
	}

	if err := s.vanRepo.SetOperator(ctx, vanID, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVanNotFound
		}
		return nil, err
	}
	return s.vanRepo.GetByID(ctx, vanID)
}

// VanForOperator returns the van assigned to the calling operator.
func (s *FleetService) VanForOperator(ctx context.Context, p domain.Principal) (*domain.Van, error) {
	op, ok := p.(domain.OperatorPrincipal)
	if !ok {
		return nil, ErrOperatorOnly
	}

	van, err := s.vanRepo.GetByOperatorID(ctx, op.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrVanNotFound
		}
		return nil, err
	}
	return van, nil
}
