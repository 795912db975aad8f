package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// OperatorRepository is a PostgreSQL implementation of repository.OperatorRepository.
type OperatorRepository struct {
	q Querier
}

// NewOperatorRepository creates a new PostgreSQL operator repository.
func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{q: db}
}

const operatorColumns = `id, name, email, phone, license_doc, status, verification, created_at`

func scanOperator(s rowScanner) (*domain.Operator, error) {
	var op domain.Operator
	if err := s.Scan(
		&op.ID,
		&op.Name,
		&op.Email,
		&op.Phone,
		&op.LicenseDoc,
		&op.Status,
		&op.Verification,
		&op.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetByID retrieves an operator by ID.
func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	op, err := scanOperator(r.q.QueryRowContext(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return op, nil
}

// GetByIDs retrieves the operators that exist among ids.
func (r *OperatorRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Operator, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + operatorColumns + ` FROM operators WHERE id = ANY($1) ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*domain.Operator
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
	}

	return operators, rows.Err()
}

// UpdateProfile updates the editable profile fields of an operator.
func (r *OperatorRepository) UpdateProfile(ctx context.Context, op *domain.Operator) error {
	query := `UPDATE operators SET name = $1, phone = $2, license_doc = $3 WHERE id = $4`
	return expectOne(r.q.ExecContext(ctx, query, op.Name, op.Phone, op.LicenseDoc, op.ID))
}

// UpdateStatus updates the online status of an operator.
func (r *OperatorRepository) UpdateStatus(ctx context.Context, id int64, status domain.OperatorStatus) error {
	return expectOne(r.q.ExecContext(ctx, `UPDATE operators SET status = $1 WHERE id = $2`, status, id))
}

// UpdateVerification updates the verification state of an operator.
func (r *OperatorRepository) UpdateVerification(ctx context.Context, id int64, v domain.VerificationStatus) error {
	return expectOne(r.q.ExecContext(ctx, `UPDATE operators SET verification = $1 WHERE id = $2`, v, id))
}

// Ensure OperatorRepository implements repository.OperatorRepository.
var _ repository.OperatorRepository = (*OperatorRepository)(nil)
