package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// FeedbackRepository is a PostgreSQL implementation of repository.FeedbackRepository.
type FeedbackRepository struct {
	q Querier
}

// NewFeedbackRepository creates a new PostgreSQL feedback repository.
func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{q: db}
}

// Create persists new feedback.
func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) error {
	query := `
		INSERT INTO feedback (rider_id, operator_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query, f.RiderID, f.OperatorID, f.Rating, f.Comment).
		Scan(&f.ID, &f.CreatedAt)
	return mapError(err)
}

// List retrieves feedback matching the filter.
func (r *FeedbackRepository) List(ctx context.Context, f repository.Filter) ([]*domain.Feedback, error) {
	where, args := filterClause(f, "rider_id", "operator_id")
	query := `
		SELECT id, rider_id, operator_id, rating, comment, created_at
		FROM feedback` + where + ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.RiderID, &fb.OperatorID, &fb.Rating, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &fb)
	}

	return result, rows.Err()
}

// Delete removes feedback by ID.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.q.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id))
}

// Ensure FeedbackRepository implements repository.FeedbackRepository.
var _ repository.FeedbackRepository = (*FeedbackRepository)(nil)
