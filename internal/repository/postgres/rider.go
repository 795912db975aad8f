package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id int64) (*domain.Rider, error) {
	query := `SELECT id, name, email, phone, address, created_at FROM riders WHERE id = $1`

	var rider domain.Rider
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Email,
		&rider.Phone,
		&rider.Address,
		&rider.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &rider, nil
}

// UpdateProfile updates the editable profile fields of a rider.
func (r *RiderRepository) UpdateProfile(ctx context.Context, rider *domain.Rider) error {
	query := `UPDATE riders SET name = $1, phone = $2, address = $3 WHERE id = $4`
	return expectOne(r.q.ExecContext(ctx, query, rider.Name, rider.Phone, rider.Address, rider.ID))
}

// Ensure RiderRepository implements repository.RiderRepository.
var _ repository.RiderRepository = (*RiderRepository)(nil)
