package repository

import (
	"context"

	"chargenow/internal/domain"
)

// FeedbackRepository defines the persistence operations for feedback.
type FeedbackRepository interface {
	// Create persists new feedback and fills in its ID and CreatedAt.
	Create(ctx context.Context, feedback *domain.Feedback) error

	// List retrieves feedback matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*domain.Feedback, error)

	// Delete removes feedback by ID.
	Delete(ctx context.Context, id int64) error
}
