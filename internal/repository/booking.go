package repository

import (
	"context"

	"chargenow/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking and fills in its ID and CreatedAt.
	// Returns ErrDuplicate if the request already has a booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID, including the rider of its request.
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// List retrieves bookings matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*domain.Booking, error)

	// UpdateStatusIf moves a booking to status to only if it is currently in
	// one of from, stamping the matching timestamp. It reports whether a row
	// was changed.
	UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
}
