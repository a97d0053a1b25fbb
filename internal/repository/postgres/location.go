package postgres

import (
	"context"
	"database/sql"

	"driveline-backend/internal/domain"
	"driveline-backend/internal/repository"
)

type locationRepository struct {
	db *sql.DB
}

func NewLocationRepository(db *sql.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	loc := &domain.Location{}
	query := `SELECT id, name, COALESCE(address, ''), lat, lng, active, delivers FROM locations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Lat, &loc.Lng, &loc.Active, &loc.Delivers)
	if err != nil {
		return nil, err
	}
	return loc, nil
}

func (r *locationRepository) ListActive(ctx context.Context) ([]domain.Location, error) {
	query := `SELECT id, name, COALESCE(address, ''), lat, lng, active, delivers FROM locations WHERE active ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Lat, &loc.Lng, &loc.Active, &loc.Delivers); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, location_id, category, make, model, plate, daily_rate_cents, status FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.LocationID, &v.Category, &v.Make, &v.Model, &v.Plate, &v.DailyRateCents, &v.Status)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id int64, status domain.VehicleStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status = $1 WHERE id = $2`, status, id)
	return err
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, name, email, COALESCE(phone, ''), COALESCE(date_of_birth, ''), created_at FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.DateOfBirth, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
