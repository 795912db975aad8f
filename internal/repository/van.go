package repository

import (
	"context"

	"chargenow/internal/domain"
)

// VanRepository defines the persistence operations for vans.
type VanRepository interface {
	// Create persists a new van. Returns ErrDuplicate for a taken van number.
	Create(ctx context.Context, van *domain.Van) error

	// GetByID retrieves a van by ID.
	GetByID(ctx context.Context, id int64) (*domain.Van, error)

	// GetByOperatorID retrieves the van assigned to an operator.
	GetByOperatorID(ctx context.Context, operatorID int64) (*domain.Van, error)

	// SetOperator assigns (or, with nil, detaches) the van's operator.
	// Returns ErrDuplicate if the operator already has a van.
	SetOperator(ctx context.Context, vanID int64, operatorID *int64) error
}
