package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingSelect = `
	SELECT b.id, b.request_id, r.rider_id, b.operator_id, b.status,
	       b.created_at, b.started_at, b.completed_at, b.cancelled_at
	FROM bookings b
	JOIN requests r ON r.id = b.request_id
`

func scanBooking(s rowScanner) (*domain.Booking, error) {
	var (
		b                                 domain.Booking
		operatorID                        sql.NullInt64
		startedAt, completedAt, cancelled sql.NullTime
	)
	if err := s.Scan(
		&b.ID,
		&b.RequestID,
		&b.RiderID,
		&operatorID,
		&b.Status,
		&b.CreatedAt,
		&startedAt,
		&completedAt,
		&cancelled,
	); err != nil {
		return nil, err
	}

	b.OperatorID = int64Ptr(operatorID)
	if startedAt.Valid {
		b.StartedAt = startedAt.Time
	}
	if completedAt.Valid {
		b.CompletedAt = completedAt.Time
	}
	if cancelled.Valid {
		b.CancelledAt = cancelled.Time
	}
	return &b, nil
}

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (request_id, operator_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query, b.RequestID, nullInt64(b.OperatorID), b.Status).
		Scan(&b.ID, &b.CreatedAt)
	return mapError(err)
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.q.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return b, nil
}

// List retrieves bookings matching the filter.
func (r *BookingRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Booking, error) {
	where, args := filterClause(f, "r.rider_id", "b.operator_id")

	rows, err := r.q.QueryContext(ctx, bookingSelect+where+` ORDER BY b.created_at DESC, b.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// UpdateStatusIf performs a conditional status update and stamps the
// timestamp belonging to the target status.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    started_at = CASE WHEN $1 = 'STARTED' THEN NOW() ELSE started_at END,
		    completed_at = CASE WHEN $1 = 'COMPLETED' THEN NOW() ELSE completed_at END,
		    cancelled_at = CASE WHEN $1 = 'CANCELLED' THEN NOW() ELSE cancelled_at END
		WHERE id = $2 AND status = ANY($3)
	`

	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	result, err := r.q.ExecContext(ctx, query, string(to), id, pq.Array(states))
	if err != nil {
		return false, err
	}
	return affectedOne(result)
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
