package repository

import (
	"context"

	"chargenow/internal/domain"
)

// OperatorRepository defines the persistence operations for operators.
type OperatorRepository interface {
	// GetByID retrieves an operator by ID.
	GetByID(ctx context.Context, id int64) (*domain.Operator, error)

	// GetByIDs retrieves the operators that exist among ids.
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Operator, error)

	// UpdateProfile updates name, phone and license reference.
	UpdateProfile(ctx context.Context, operator *domain.Operator) error

	// UpdateStatus updates the online status of an operator.
	UpdateStatus(ctx context.Context, id int64, status domain.OperatorStatus) error

	// UpdateVerification updates the verification state of an operator.
	UpdateVerification(ctx context.Context, id int64, v domain.VerificationStatus) error
}
