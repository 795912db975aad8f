package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

const paymentColumns = `id, booking_id, rider_id, operator_id, amount, method, status, created_at, settled_at`

func scanPayment(s rowScanner) (*domain.Payment, error) {
	var (
		p         domain.Payment
		settledAt sql.NullTime
	)
	if err := s.Scan(
		&p.ID,
		&p.BookingID,
		&p.RiderID,
		&p.OperatorID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.CreatedAt,
		&settledAt,
	); err != nil {
		return nil, err
	}
	if settledAt.Valid {
		p.SettledAt = settledAt.Time
	}
	return &p, nil
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (booking_id, rider_id, operator_id, amount, method, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query,
		p.BookingID,
		p.RiderID,
		p.OperatorID,
		p.Amount,
		p.Method,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	return mapError(err)
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p, err := scanPayment(r.q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

// List retrieves payments matching the filter.
func (r *PaymentRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Payment, error) {
	where, args := filterClause(f, "rider_id", "operator_id")
	query := `SELECT ` + paymentColumns + ` FROM payments` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// UpdateStatusIf performs a conditional status update. Moving to COMPLETED
// stamps settled_at.
func (r *PaymentRepository) UpdateStatusIf(ctx context.Context, id int64, from, to domain.PaymentStatus) (bool, error) {
	query := `
		UPDATE payments
		SET status = $1,
		    settled_at = CASE WHEN $1 = 'COMPLETED' THEN NOW() ELSE settled_at END
		WHERE id = $2 AND status = $3
	`

	result, err := r.q.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// Ensure PaymentRepository implements repository.PaymentRepository.
var _ repository.PaymentRepository = (*PaymentRepository)(nil)
