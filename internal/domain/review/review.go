package review

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review is a driver's rating of a completed ride
type Review struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	RideID    uuid.UUID      `db:"ride_id" json:"ride_id"`
	DriverID  uuid.UUID      `db:"driver_id" json:"driver_id"`
	Rating    int            `db:"rating" json:"rating"`
	Comment   sql.NullString `db:"comment" json:"-"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	DeletedAt sql.NullTime   `db:"deleted_at" json:"-"`
}

var (
	ErrRideNotFound     = errors.New("ride not found")
	ErrNotRideOwner     = errors.New("ride belongs to another driver")
	ErrRideNotCompleted = errors.New("ride is not completed")
	ErrAlreadyReviewed  = errors.New("ride already reviewed")
)

// CreateRequest for POST /v1/rides/{id}/review
type CreateRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// Response is the API shape of a review
type Response struct {
	ID        uuid.UUID `json:"id"`
	RideID    uuid.UUID `json:"ride_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ResponseFromEntity converts a review entity to its API shape
func ResponseFromEntity(r *Review) *Response {
	return &Response{
		ID:        r.ID,
		RideID:    r.RideID,
		Rating:    r.Rating,
		Comment:   r.Comment.String,
		CreatedAt: r.CreatedAt,
	}
}
