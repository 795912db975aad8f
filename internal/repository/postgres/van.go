package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// VanRepository is a PostgreSQL implementation of repository.VanRepository.
type VanRepository struct {
	q Querier
}

// NewVanRepository creates a new PostgreSQL van repository.
func NewVanRepository(db *sql.DB) *VanRepository {
	return &VanRepository{q: db}
}

const vanColumns = `id, van_number, operator_id, battery_capacity, created_at`

func scanVan(s rowScanner) (*domain.Van, error) {
	var (
		van        domain.Van
		operatorID sql.NullInt64
	)
	if err := s.Scan(&van.ID, &van.VanNumber, &operatorID, &van.BatteryCapacity, &van.CreatedAt); err != nil {
		return nil, err
	}
	van.OperatorID = int64Ptr(operatorID)
	return &van, nil
}

// Create persists a new van.
func (r *VanRepository) Create(ctx context.Context, van *domain.Van) error {
	query := `
		INSERT INTO vans (van_number, operator_id, battery_capacity)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query, van.VanNumber, nullInt64(van.OperatorID), van.BatteryCapacity).
		Scan(&van.ID, &van.CreatedAt)
	return mapError(err)
}

// GetByID retrieves a van by ID.
func (r *VanRepository) GetByID(ctx context.Context, id int64) (*domain.Van, error) {
	van, err := scanVan(r.q.QueryRowContext(ctx, `SELECT `+vanColumns+` FROM vans WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return van, nil
}

// GetByOperatorID retrieves the van assigned to an operator.
func (r *VanRepository) GetByOperatorID(ctx context.Context, operatorID int64) (*domain.Van, error) {
	van, err := scanVan(r.q.QueryRowContext(ctx, `SELECT `+vanColumns+` FROM vans WHERE operator_id = $1`, operatorID))
	if err != nil {
		return nil, mapError(err)
	}
	return van, nil
}

// SetOperator assigns or detaches the van's operator.
func (r *VanRepository) SetOperator(ctx context.Context, vanID int64, operatorID *int64) error {
	return expectOne(r.q.ExecContext(ctx, `UPDATE vans SET operator_id = $1 WHERE id = $2`, nullInt64(operatorID), vanID))
}

// Ensure VanRepository implements repository.VanRepository.
var _ repository.VanRepository = (*VanRepository)(nil)
