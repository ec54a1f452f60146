package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines review data access interface
type Repository interface {
	Create(ctx context.Context, r *Review) error
	GetByRideID(ctx context.Context, rideID uuid.UUID) (*Review, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Review, int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new review repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	query := `
		INSERT INTO reviews (id, ride_id, driver_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, rev.ID, rev.RideID, rev.DriverID, rev.Rating, rev.Comment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("review repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByRideID(ctx context.Context, rideID uuid.UUID) (*Review, error) {
	query := `
		SELECT id, ride_id, driver_id, rating, comment, created_at, deleted_at
		FROM reviews
		WHERE ride_id = $1 AND deleted_at IS NULL
	`
	var rev Review
	err := r.db.GetContext(ctx, &rev, query, rideID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &rev, nil
}

func (r *repository) ListByDriver(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM reviews WHERE driver_id = $1 AND deleted_at IS NULL", driverID)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository count: %w", err)
	}

	query := `
		SELECT id, ride_id, driver_id, rating, comment, created_at, deleted_at
		FROM reviews
		WHERE driver_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	reviews := []*Review{}
	err = r.db.SelectContext(ctx, &reviews, query, driverID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("review repository list: %w", err)
	}

	return reviews, total, nil
}
