package postgres

import (
	"context"
	"database/sql"

	"chargenow/internal/domain"
	"chargenow/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

const vehicleColumns = `id, rider_id, company, name, model, registration_number, created_at`

func scanVehicle(s rowScanner) (*domain.Vehicle, error) {
	var v domain.Vehicle
	if err := s.Scan(&v.ID, &v.RiderID, &v.Company, &v.Name, &v.Model, &v.RegistrationNumber, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (rider_id, company, name, model, registration_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRowContext(ctx, query, v.RiderID, v.Company, v.Name, v.Model, v.RegistrationNumber).
		Scan(&v.ID, &v.CreatedAt)
	return mapError(err)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v, err := scanVehicle(r.q.QueryRowContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

// ListByRider retrieves the vehicles of a rider.
func (r *VehicleRepository) ListByRider(ctx context.Context, riderID int64) ([]*domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE rider_id = $1 ORDER BY id`, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// Update updates an existing vehicle.
func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET company = $1, name = $2, model = $3, registration_number = $4
		WHERE id = $5
	`
	return expectOne(r.q.ExecContext(ctx, query, v.Company, v.Name, v.Model, v.RegistrationNumber, v.ID))
}

// Delete removes a vehicle by ID.
func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	return expectOne(r.q.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id))
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
