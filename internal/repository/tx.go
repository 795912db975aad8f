package repository

import "context"

// Repositories are the repositories bound to one transaction.
type Repositories struct {
	Requests RequestRepository
	Bookings BookingRepository
}

// Transactor runs fn inside a single transaction. The transaction commits
// if fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
