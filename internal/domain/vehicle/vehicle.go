package vehicle

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Vehicle represents a fleet vehicle, optionally assigned to a driver
type Vehicle struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	DriverID    uuid.NullUUID `db:"driver_id" json:"driver_id,omitempty"`
	Make        string        `db:"make" json:"make"`
	Model       string        `db:"model" json:"model"`
	Year        int           `db:"year" json:"year"`
	PlateNumber string        `db:"plate_number" json:"plate_number"`
	Category    string        `db:"category" json:"category"`
	Seats       int           `db:"seats" json:"seats"`
	IsActive    bool          `db:"is_active" json:"is_active"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
	DeletedAt   sql.NullTime  `db:"deleted_at" json:"-"`
}

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrPlateTaken      = errors.New("plate number already registered")
	ErrDriverNotFound  = errors.New("driver not found")
)

// CreateRequest for POST /admin/vehicles
type CreateRequest struct {
	DriverID    *uuid.UUID `json:"driver_id,omitempty"`
	Make        string     `json:"make" validate:"required,min=2,max=50"`
	Model       string     `json:"model" validate:"required,min=1,max=50"`
	Year        int        `json:"year" validate:"required,min=1990,max=2100"`
	PlateNumber string     `json:"plate_number" validate:"required,min=2,max=20"`
	Category    string     `json:"category" validate:"required,vehicle_category"`
	Seats       int        `json:"seats" validate:"required,min=1,max=20"`
}

// UpdateRequest for PATCH /admin/vehicles/{id}
type UpdateRequest struct {
	DriverID    *uuid.UUID `json:"driver_id,omitempty"`
	Make        *string    `json:"make,omitempty" validate:"omitempty,min=2,max=50"`
	Model       *string    `json:"model,omitempty" validate:"omitempty,min=1,max=50"`
	Year        *int       `json:"year,omitempty" validate:"omitempty,min=1990,max=2100"`
	PlateNumber *string    `json:"plate_number,omitempty" validate:"omitempty,min=2,max=20"`
	Category    *string    `json:"category,omitempty" validate:"omitempty,vehicle_category"`
	Seats       *int       `json:"seats,omitempty" validate:"omitempty,min=1,max=20"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// ListFilter for vehicle listing
type ListFilter struct {
	Category string
	Active   *bool
	Limit    int
	Offset   int
}
