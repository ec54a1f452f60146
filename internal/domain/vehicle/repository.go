package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines vehicle data access interface
type Repository interface {
	Create(ctx context.Context, v *Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	GetByPlate(ctx context.Context, plate string) (*Vehicle, error)
	List(ctx context.Context, filter ListFilter) ([]*Vehicle, int, error)
	Update(ctx context.Context, v *Vehicle) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new vehicle repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const vehicleColumns = `id, driver_id, make, model, year, plate_number, category, seats,
	is_active, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, v *Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, make, model, year, plate_number, category, seats, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.DriverID, v.Make, v.Model, v.Year, v.PlateNumber, v.Category, v.Seats, v.IsActive,
	)
	if err != nil {
		return fmt.Errorf("vehicle repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1 AND deleted_at IS NULL`, vehicleColumns)

	var v Vehicle
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &v, nil
}

func (r *repository) GetByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE plate_number = $1 AND deleted_at IS NULL`, vehicleColumns)

	var v Vehicle
	err := r.db.GetContext(ctx, &v, query, plate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &v, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Vehicle, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []interface{}{}
	argn := 1

	if filter.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argn)
		args = append(args, filter.Category)
		argn++
	}
	if filter.Active != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argn)
		args = append(args, *filter.Active)
		argn++
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM vehicles "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("vehicle repository list count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM vehicles %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, vehicleColumns, where, argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	vehicles := []*Vehicle{}
	err = r.db.SelectContext(ctx, &vehicles, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("vehicle repository list: %w", err)
	}

	return vehicles, total, nil
}

func (r *repository) Update(ctx context.Context, v *Vehicle) error {
	query := `
		UPDATE vehicles
		SET driver_id = $2, make = $3, model = $4, year = $5, plate_number = $6,
		    category = $7, seats = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID, v.DriverID, v.Make, v.Model, v.Year, v.PlateNumber, v.Category, v.Seats, v.IsActive,
	)
	if err != nil {
		return fmt.Errorf("vehicle repository update: %w", err)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE vehicles SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("vehicle repository soft delete: %w", err)
	}

	return nil
}
