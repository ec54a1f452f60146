package wallet

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TransactionType of a ledger entry
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// ReportStatus of a ledger entry
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportCompleted ReportStatus = "completed"
	ReportReversed  ReportStatus = "reversed"
)

// Report is an append-only wallet ledger entry. balance_after records
// the driver's balance immediately after this transaction.
type Report struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	DriverID        uuid.UUID       `db:"driver_id" json:"driver_id"`
	TransactionType TransactionType `db:"transaction_type" json:"transaction_type"`
	Amount          int64           `db:"amount" json:"amount"`
	BalanceAfter    int64           `db:"balance_after" json:"balance_after"`
	Status          ReportStatus    `db:"status" json:"status"`
	ReferenceID     sql.NullString  `db:"reference_id" json:"reference_id,omitempty"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	DeletedAt       sql.NullTime    `db:"deleted_at" json:"-"`
}

// OrderStatus of a gateway top-up order
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// TopupOrder tracks a gateway order from creation to payment
type TopupOrder struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	DriverID  uuid.UUID      `db:"driver_id" json:"driver_id"`
	OrderID   string         `db:"order_id" json:"order_id"`
	Amount    int64          `db:"amount" json:"amount"`
	Currency  string         `db:"currency" json:"currency"`
	Status    OrderStatus    `db:"status" json:"status"`
	PaymentID sql.NullString `db:"payment_id" json:"payment_id,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Balance is a driver's wallet state
type Balance struct {
	DriverID       uuid.UUID `db:"id" json:"driver_id"`
	WalletBalance  int64     `db:"wallet_balance" json:"wallet_balance"`
	CreditRideCnt  int       `db:"credit_ride_count" json:"credit_ride_count"`
}
