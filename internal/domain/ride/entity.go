package ride

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status of a ride
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusOngoing   Status = "ongoing"
)

// PaymentMode of a ride
type PaymentMode string

const (
	PaymentCash   PaymentMode = "cash"
	PaymentCard   PaymentMode = "card"
	PaymentWallet PaymentMode = "wallet"
)

// Ride represents a completed or in-progress trip
type Ride struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	DriverID       uuid.UUID      `db:"driver_id" json:"driver_id"`
	SubPackageID   uuid.NullUUID  `db:"sub_package_id" json:"sub_package_id,omitempty"`
	CustomerName   string         `db:"customer_name" json:"customer_name"`
	CustomerPhone  sql.NullString `db:"customer_phone" json:"customer_phone,omitempty"`
	PickupLocation string         `db:"pickup_location" json:"pickup_location"`
	DropLocation   string         `db:"drop_location" json:"drop_location"`
	Fare           int64          `db:"fare" json:"fare"`
	PaymentMode    PaymentMode    `db:"payment_mode" json:"payment_mode"`
	Status         Status         `db:"status" json:"status"`
	StartedAt      sql.NullTime   `db:"started_at" json:"started_at,omitempty"`
	CompletedAt    sql.NullTime   `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at" json:"-"`

	DriverName string `db:"driver_name" json:"driver_name,omitempty"`
}

var ErrRideNotFound = errors.New("ride not found")

// Filter narrows ride listings and exports
type Filter struct {
	DriverID    *uuid.UUID
	Status      *Status
	PaymentMode *PaymentMode
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

// Summary aggregates rides matching a filter
type Summary struct {
	TotalRides     int   `db:"total_rides" json:"total_rides"`
	CompletedRides int   `db:"completed_rides" json:"completed_rides"`
	CancelledRides int   `db:"cancelled_rides" json:"cancelled_rides"`
	TotalFare      int64 `db:"total_fare" json:"total_fare"`
	WalletFare     int64 `db:"wallet_fare" json:"wallet_fare"`
	CashFare       int64 `db:"cash_fare" json:"cash_fare"`
}
