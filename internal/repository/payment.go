package repository

import (
	"context"

	"chargenow/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment and fills in its ID and CreatedAt.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)

	// List retrieves payments matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*domain.Payment, error)

	// UpdateStatusIf moves a payment from one status to another, reporting
	// whether a row was changed.
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.PaymentStatus) (bool, error)
}
