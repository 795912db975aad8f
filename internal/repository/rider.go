package repository

import (
	"context"

	"chargenow/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id int64) (*domain.Rider, error)

	// UpdateProfile updates name, phone and address.
	UpdateProfile(ctx context.Context, rider *domain.Rider) error
}
