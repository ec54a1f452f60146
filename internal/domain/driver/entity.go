package driver

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents driver account status
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusBlocked  Status = "blocked"
	StatusInactive Status = "inactive"
)

// MaxDocumentRejections is the rejection count at which the driver
// account is blocked
const MaxDocumentRejections = 3

// Driver represents a mobile app user
type Driver struct {
	ID             uuid.UUID      `db:"id" json:"id"`
	Name           string         `db:"name" json:"name"`
	Email          string         `db:"email" json:"email"`
	Phone          string         `db:"phone" json:"phone"`
	PasswordHash   string         `db:"password_hash" json:"-"`
	Status         Status         `db:"status" json:"status"`
	WalletBalance  int64          `db:"wallet_balance" json:"wallet_balance"`
	CreditRideCnt  int            `db:"credit_ride_count" json:"credit_ride_count"`
	RejectionCount int            `db:"rejection_count" json:"rejection_count"`
	DeviceToken    sql.NullString `db:"device_token" json:"-"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt      sql.NullTime   `db:"deleted_at" json:"-"`
}

// DocumentType of a verification artifact
type DocumentType string

const (
	DocumentLicense    DocumentType = "license"
	DocumentEmiratesID DocumentType = "emirates_id"
)

// DocumentStatus of a verification artifact
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentVerified DocumentStatus = "verified"
	DocumentRejected DocumentStatus = "rejected"
)

// Document represents an uploaded verification artifact
type Document struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	DriverID     uuid.UUID      `db:"driver_id" json:"driver_id"`
	Type         DocumentType   `db:"type" json:"type"`
	FileKey      string         `db:"file_key" json:"-"`
	Status       DocumentStatus `db:"status" json:"status"`
	RejectReason sql.NullString `db:"reject_reason" json:"reject_reason,omitempty"`
	VerifiedBy   uuid.NullUUID  `db:"verified_by" json:"-"`
	VerifiedAt   sql.NullTime   `db:"verified_at" json:"verified_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at" json:"-"`
}
