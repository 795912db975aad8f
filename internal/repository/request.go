package repository

import (
	"context"

	"chargenow/internal/domain"
)

// RequestRepository defines the persistence operations for charging requests.
type RequestRepository interface {
	// Create persists a new request and fills in its ID and CreatedAt.
	Create(ctx context.Context, req *domain.Request) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id int64) (*domain.Request, error)

	// List retrieves requests matching the filter, newest first.
	List(ctx context.Context, f Filter) ([]*domain.Request, error)

	// UpdateStatusIf moves a request from one status to another only if it is
	// currently in from (and, when operatorID is set, addressed to that
	// operator). It reports whether a row was changed.
	UpdateStatusIf(ctx context.Context, id int64, operatorID *int64, from, to domain.RequestStatus) (bool, error)

	// SetStatus overwrites the status unconditionally.
	SetStatus(ctx context.Context, id int64, status domain.RequestStatus) error

	// AssignOperator addresses a pending request to an operator. It reports
	// whether the request was still pending.
	AssignOperator(ctx context.Context, id, operatorID int64) (bool, error)

	// HasInteraction reports whether the rider has addressed any request to
	// the operator.
	HasInteraction(ctx context.Context, riderID, operatorID int64) (bool, error)
}
