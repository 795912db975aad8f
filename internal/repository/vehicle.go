package repository

import (
	"context"

	"chargenow/internal/domain"
)

// VehicleRepository defines the persistence operations for rider vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle. Returns ErrDuplicate for a taken
	// registration number.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)

	// ListByRider retrieves the vehicles of a rider.
	ListByRider(ctx context.Context, riderID int64) ([]*domain.Vehicle, error)

	// Update updates an existing vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// Delete removes a vehicle by ID.
	Delete(ctx context.Context, id int64) error
}
