package catalog

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Package is a top-level service offering
type Package struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at" json:"-"`

	SubPackages []*SubPackage `db:"-" json:"sub_packages,omitempty"`
}

// SubPackage is a variant under a package
type SubPackage struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	PackageID   uuid.UUID      `db:"package_id" json:"package_id"`
	Name        string         `db:"name" json:"name"`
	Description sql.NullString `db:"description" json:"description,omitempty"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt   sql.NullTime   `db:"deleted_at" json:"-"`

	Price *Price `db:"-" json:"price,omitempty"`
}

// Price holds the fare schedule for a sub-package, in minor units
type Price struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	SubPackageID uuid.UUID    `db:"sub_package_id" json:"sub_package_id"`
	BaseFare     int64        `db:"base_fare" json:"base_fare"`
	PerKm        int64        `db:"per_km" json:"per_km"`
	PerMinute    int64        `db:"per_minute" json:"per_minute"`
	Currency     string       `db:"currency" json:"currency"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt    sql.NullTime `db:"deleted_at" json:"-"`
}

var (
	ErrPackageNotFound    = errors.New("package not found")
	ErrSubPackageNotFound = errors.New("sub-package not found")
	ErrPriceNotFound      = errors.New("price not found")
	ErrNameTaken          = errors.New("name already in use")
	ErrPriceExists        = errors.New("sub-package already has a price")
)

// CreatePackageRequest for POST /admin/packages
type CreatePackageRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// UpdatePackageRequest for PATCH /admin/packages/{id}
type UpdatePackageRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// CreateSubPackageRequest for POST /admin/packages/{id}/subpackages
type CreateSubPackageRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// UpdateSubPackageRequest for PATCH /admin/subpackages/{id}
type UpdateSubPackageRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

// SetPriceRequest for PUT /admin/subpackages/{id}/price
type SetPriceRequest struct {
	BaseFare  int64 `json:"base_fare" validate:"required,gt=0"`
	PerKm     int64 `json:"per_km" validate:"gte=0"`
	PerMinute int64 `json:"per_minute" validate:"gte=0"`
}
