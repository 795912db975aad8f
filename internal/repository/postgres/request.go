package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

const requestColumns = `id, rider_id, operator_id, vehicle_id, latitude, longitude, status, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(s rowScanner) (*domain.Request, error) {
	var (
		req        domain.Request
		operatorID sql.NullInt64
	)
	if err := s.Scan(
		&req.ID,
		&req.RiderID,
		&operatorID,
		&req.VehicleID,
		&req.Latitude,
		&req.Longitude,
		&req.Status,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}
	req.OperatorID = int64Ptr(operatorID)
	return &req, nil
}

// Create persists a new request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	query := `
		INSERT INTO requests (rider_id, operator_id, vehicle_id, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		req.RiderID,
		nullInt64(req.OperatorID),
		req.VehicleID,
		req.Latitude,
		req.Longitude,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt)

	return mapError(err)
}

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`

	req, err := scanRequest(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return req, nil
}

// List retrieves requests matching the filter.
func (r *RequestRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Request, error) {
	where, args := filterClause(f, "rider_id", "operator_id")
	query := `SELECT ` + requestColumns + ` FROM requests` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// UpdateStatusIf performs a conditional status update.
func (r *RequestRepository) UpdateStatusIf(ctx context.Context, id int64, operatorID *int64, from, to domain.RequestStatus) (bool, error) {
	query := `
		UPDATE requests
		SET status = $1
		WHERE id = $2 AND status = $3 AND ($4::BIGINT IS NULL OR operator_id = $4)
	`

	result, err := r.q.ExecContext(ctx, query, to, id, from, nullInt64(operatorID))
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// SetStatus overwrites the status of a request.
func (r *RequestRepository) SetStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	return expectOne(r.q.ExecContext(ctx, `UPDATE requests SET status = $1 WHERE id = $2`, status, id))
}

// AssignOperator addresses a pending request to an operator.
func (r *RequestRepository) AssignOperator(ctx context.Context, id, operatorID int64) (bool, error) {
	query := `UPDATE requests SET operator_id = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, operatorID, id, domain.RequestStatusPending)
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// HasInteraction reports whether the rider has addressed a request to the operator.
func (r *RequestRepository) HasInteraction(ctx context.Context, riderID, operatorID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM requests WHERE rider_id = $1 AND operator_id = $2)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, riderID, operatorID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Ensure RequestRepository implements repository.RequestRepository.
var _ repository.RequestRepository = (*RequestRepository)(nil)
