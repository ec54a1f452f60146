package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines wallet data access interface
type Repository interface {
	GetBalance(ctx context.Context, driverID uuid.UUID) (*Balance, error)
	ListReports(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Report, int, error)

	CreateOrder(ctx context.Context, order *TopupOrder) error
	GetOrderByOrderID(ctx context.Context, orderID string) (*TopupOrder, error)

	// CompleteTopup credits the driver balance, appends a ledger entry
	// and marks the order paid, all in one transaction. A balance
	// crossing from negative to non-negative resets credit_ride_count.
	CompleteTopup(ctx context.Context, order *TopupOrder, paymentID string) (*Report, error)

	// DebitRide charges a ride fare against the wallet. The balance may
	// go negative; each ride that leaves it negative increments
	// credit_ride_count.
	DebitRide(ctx context.Context, driverID uuid.UUID, amount int64, referenceID string) (*Report, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new wallet repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// GetBalance returns the driver's wallet state
func (r *repository) GetBalance(ctx context.Context, driverID uuid.UUID) (*Balance, error) {
	query := `
		SELECT id, wallet_balance, credit_ride_count
		FROM drivers WHERE id = $1 AND deleted_at IS NULL
	`
	var b Balance
	err := r.db.GetContext(ctx, &b, query, driverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

// ListReports returns ledger entries newest first
func (r *repository) ListReports(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Report, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM wallet_reports WHERE driver_id = $1 AND deleted_at IS NULL`, driverID)
	if err != nil {
		return nil, 0, fmt.Errorf("wallet repository reports count: %w", err)
	}

	query := `
		SELECT id, driver_id, transaction_type, amount, balance_after, status,
		       reference_id, transaction_date, created_at, deleted_at
		FROM wallet_reports
		WHERE driver_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	reports := []*Report{}
	err = r.db.SelectContext(ctx, &reports, query, driverID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("wallet repository reports list: %w", err)
	}

	return reports, total, nil
}

// CreateOrder stores a freshly created gateway order
func (r *repository) CreateOrder(ctx context.Context, order *TopupOrder) error {
	query := `
		INSERT INTO topup_orders (id, driver_id, order_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.DriverID,
		order.OrderID,
		order.Amount,
		order.Currency,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("wallet repository create order: %w", err)
	}

	return nil
}

// GetOrderByOrderID returns a top-up order by its gateway order id
func (r *repository) GetOrderByOrderID(ctx context.Context, orderID string) (*TopupOrder, error) {
	query := `
		SELECT id, driver_id, order_id, amount, currency, status, payment_id, created_at, updated_at
		FROM topup_orders WHERE order_id = $1
	`
	var order TopupOrder
	err := r.db.GetContext(ctx, &order, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

// CompleteTopup applies the paid order atomically
func (r *repository) CompleteTopup(ctx context.Context, order *TopupOrder, paymentID string) (*Report, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet repository complete topup: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	var creditRides int
	err = tx.QueryRowContext(ctx, `
		SELECT wallet_balance, credit_ride_count FROM drivers
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, order.DriverID).Scan(&balance, &creditRides)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("wallet repository lock driver: %w", err)
	}

	newBalance := balance + order.Amount
	newCreditRides := creditRides
	if balance < 0 && newBalance >= 0 {
		newCreditRides = 0
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE drivers SET wallet_balance = $2, credit_ride_count = $3, updated_at = NOW()
		WHERE id = $1
	`, order.DriverID, newBalance, newCreditRides)
	if err != nil {
		return nil, fmt.Errorf("wallet repository update balance: %w", err)
	}

	report := &Report{
		ID:              uuid.New(),
		DriverID:        order.DriverID,
		TransactionType: TransactionCredit,
		Amount:          order.Amount,
		BalanceAfter:    newBalance,
		Status:          ReportCompleted,
		ReferenceID:     sql.NullString{String: paymentID, Valid: true},
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO wallet_reports (id, driver_id, transaction_type, amount, balance_after, status, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_date, created_at
	`, report.ID, report.DriverID, report.TransactionType, report.Amount,
		report.BalanceAfter, report.Status, report.ReferenceID,
	).Scan(&report.TransactionDate, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("wallet repository insert report: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE topup_orders SET status = 'paid', payment_id = $2, updated_at = NOW()
		WHERE order_id = $1 AND status = 'created'
	`, order.OrderID, paymentID)
	if err != nil {
		return nil, fmt.Errorf("wallet repository mark order paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Lost the race with a concurrent verify of the same order
		return nil, ErrOrderAlreadyPaid
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("wallet repository complete topup commit: %w", err)
	}

	return report, nil
}

// DebitRide charges a fare against the wallet
func (r *repository) DebitRide(ctx context.Context, driverID uuid.UUID, amount int64, referenceID string) (*Report, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("wallet repository debit ride: %w", err)
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx, `
		SELECT wallet_balance FROM drivers
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, driverID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("wallet repository lock driver: %w", err)
	}

	newBalance := balance - amount
	if newBalance < 0 {
		_, err = tx.ExecContext(ctx, `
			UPDATE drivers SET wallet_balance = $2, credit_ride_count = credit_ride_count + 1, updated_at = NOW()
			WHERE id = $1
		`, driverID, newBalance)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE drivers SET wallet_balance = $2, updated_at = NOW()
			WHERE id = $1
		`, driverID, newBalance)
	}
	if err != nil {
		return nil, fmt.Errorf("wallet repository update balance: %w", err)
	}

	report := &Report{
		ID:              uuid.New(),
		DriverID:        driverID,
		TransactionType: TransactionDebit,
		Amount:          amount,
		BalanceAfter:    newBalance,
		Status:          ReportCompleted,
		ReferenceID:     sql.NullString{String: referenceID, Valid: referenceID != ""},
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO wallet_reports (id, driver_id, transaction_type, amount, balance_after, status, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING transaction_date, created_at
	`, report.ID, report.DriverID, report.TransactionType, report.Amount,
		report.BalanceAfter, report.Status, report.ReferenceID,
	).Scan(&report.TransactionDate, &report.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("wallet repository insert report: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("wallet repository debit ride commit: %w", err)
	}

	return report, nil
}
