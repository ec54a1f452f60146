package ride

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines ride data access interface
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Ride, error)
	List(ctx context.Context, filter Filter) ([]*Ride, int, error)
	// ListAll returns every ride matching the filter, for exports
	ListAll(ctx context.Context, filter Filter) ([]*Ride, error)
	Summarize(ctx context.Context, filter Filter) (*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new ride repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func buildWhere(filter Filter) (string, []interface{}, int) {
	where := "WHERE r.deleted_at IS NULL"
	args := []interface{}{}
	argn := 1

	if filter.DriverID != nil {
		where += fmt.Sprintf(" AND r.driver_id = $%d", argn)
		args = append(args, *filter.DriverID)
		argn++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND r.status = $%d", argn)
		args = append(args, *filter.Status)
		argn++
	}
	if filter.PaymentMode != nil {
		where += fmt.Sprintf(" AND r.payment_mode = $%d", argn)
		args = append(args, *filter.PaymentMode)
		argn++
	}
	if filter.From != nil {
		where += fmt.Sprintf(" AND r.created_at >= $%d", argn)
		args = append(args, *filter.From)
		argn++
	}
	if filter.To != nil {
		where += fmt.Sprintf(" AND r.created_at < $%d", argn)
		args = append(args, *filter.To)
		argn++
	}

	return where, args, argn
}

const rideColumns = `r.id, r.driver_id, r.sub_package_id, r.customer_name, r.customer_phone,
	r.pickup_location, r.drop_location, r.fare, r.payment_mode, r.status,
	r.started_at, r.completed_at, r.created_at, r.updated_at, r.deleted_at,
	d.name AS driver_name`

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ride, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM rides r
		JOIN drivers d ON d.id = r.driver_id
		WHERE r.id = $1 AND r.deleted_at IS NULL
	`, rideColumns)

	var ride Ride
	err := r.db.GetContext(ctx, &ride, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ride, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]*Ride, int, error) {
	where, args, argn := buildWhere(filter)

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM rides r "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ride repository list count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM rides r
		JOIN drivers d ON d.id = r.driver_id
		%s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, rideColumns, where, argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	rides := []*Ride{}
	err = r.db.SelectContext(ctx, &rides, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ride repository list: %w", err)
	}

	return rides, total, nil
}

func (r *repository) ListAll(ctx context.Context, filter Filter) ([]*Ride, error) {
	where, args, _ := buildWhere(filter)

	query := fmt.Sprintf(`
		SELECT %s FROM rides r
		JOIN drivers d ON d.id = r.driver_id
		%s
		ORDER BY r.created_at DESC
	`, rideColumns, where)

	rides := []*Ride{}
	err := r.db.SelectContext(ctx, &rides, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ride repository list all: %w", err)
	}

	return rides, nil
}

func (r *repository) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	where, args, _ := buildWhere(filter)

	query := `
		SELECT
			COUNT(*) AS total_rides,
			COUNT(*) FILTER (WHERE r.status = 'completed') AS completed_rides,
			COUNT(*) FILTER (WHERE r.status = 'cancelled') AS cancelled_rides,
			COALESCE(SUM(r.fare) FILTER (WHERE r.status = 'completed'), 0) AS total_fare,
			COALESCE(SUM(r.fare) FILTER (WHERE r.status = 'completed' AND r.payment_mode = 'wallet'), 0) AS wallet_fare,
			COALESCE(SUM(r.fare) FILTER (WHERE r.status = 'completed' AND r.payment_mode = 'cash'), 0) AS cash_fare
		FROM rides r ` + where

	var summary Summary
	err := r.db.GetContext(ctx, &summary, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ride repository summarize: %w", err)
	}

	return &summary, nil
}
