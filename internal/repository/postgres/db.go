package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	"chargenow/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

const (
	numericOutOfRange   = "22003"
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
)

// mapError translates driver errors into repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return repository.ErrDuplicate
		case foreignKeyViolation:
			return repository.ErrReferenced
		case numericOutOfRange:
			return repository.ErrOutOfRange
		}
	}
	return err
}

// affectedOne reports whether exactly one row was changed.
func affectedOne(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

// filterClause renders f as a WHERE clause over the given columns, starting
// at placeholder $1.
func filterClause(f repository.Filter, riderCol, operatorCol string) (string, []any) {
	var (
		clause string
		args   []any
	)
	add := func(col string, v int64) {
		args = append(args, v)
		cond := col + " = $" + strconv.Itoa(len(args))
		if clause == "" {
			clause = " WHERE " + cond
		} else {
			clause += " AND " + cond
		}
	}
	if f.RiderID != nil {
		add(riderCol, *f.RiderID)
	}
	if f.OperatorID != nil {
		add(operatorCol, *f.OperatorID)
	}
	return clause, args
}

// expectOne converts the outcome of a single-row write into ErrNotFound when
// no row matched.
func expectOne(result sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	ok, err := affectedOne(result)
	if err != nil {
		return err
	}
	if !ok {
		return repository.ErrNotFound
	}
	return nil
}
