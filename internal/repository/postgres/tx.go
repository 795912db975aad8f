package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/repository"
)

// Transactor runs units of work in a database transaction with
// transaction-scoped repositories.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a new Transactor.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn in a transaction, committing on success.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) (err error) {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	repos := repository.Repositories{
		Requests: NewRequestRepositoryWithTx(tx),
		Bookings: NewBookingRepositoryWithTx(tx),
	}

	if err = fn(ctx, repos); err != nil {
		return err
	}

	return tx.Commit()
}

// Ensure Transactor implements repository.Transactor.
var _ repository.Transactor = (*Transactor)(nil)
