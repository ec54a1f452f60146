package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines driver data access interface
type Repository interface {
	Create(ctx context.Context, driver *Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	GetByEmail(ctx context.Context, email string) (*Driver, error)
	GetByPhone(ctx context.Context, phone string) (*Driver, error)
	List(ctx context.Context, filter ListFilter) ([]*Driver, int, error)
	UpdateProfile(ctx context.Context, driver *Driver) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateDeviceToken(ctx context.Context, id uuid.UUID, token string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	UpsertDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, driverID uuid.UUID, docType DocumentType) (*Document, error)
	GetDocuments(ctx context.Context, driverID uuid.UUID) ([]*Document, error)
	// ReviewDocument applies the verdict and, on rejection, increments
	// the driver's rejection count in the same transaction. It returns
	// the driver's rejection count after the review.
	ReviewDocument(ctx context.Context, doc *Document, rejected bool) (int, error)

	ListBelowBalance(ctx context.Context, threshold int64) ([]*Driver, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new driver repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const driverColumns = `id, name, email, phone, password_hash, status, wallet_balance,
	credit_ride_count, rejection_count, device_token, created_at, updated_at, deleted_at`

// Create creates a new driver
func (r *repository) Create(ctx context.Context, driver *Driver) error {
	query := `
		INSERT INTO drivers (id, name, email, phone, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Email,
		driver.Phone,
		driver.PasswordHash,
		driver.Status,
	)
	if err != nil {
		return fmt.Errorf("driver repository create: %w", err)
	}

	return nil
}

// GetByID returns driver by ID
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE id = $1 AND deleted_at IS NULL`, driverColumns)

	var driver Driver
	err := r.db.GetContext(ctx, &driver, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &driver, nil
}

// GetByEmail returns driver by email
func (r *repository) GetByEmail(ctx context.Context, email string) (*Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE email = $1 AND deleted_at IS NULL`, driverColumns)

	var driver Driver
	err := r.db.GetContext(ctx, &driver, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &driver, nil
}

// GetByPhone returns driver by phone
func (r *repository) GetByPhone(ctx context.Context, phone string) (*Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE phone = $1 AND deleted_at IS NULL`, driverColumns)

	var driver Driver
	err := r.db.GetContext(ctx, &driver, query, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &driver, nil
}

// List returns drivers matching the filter with total count
func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Driver, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []interface{}{}
	argn := 1

	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argn)
		args = append(args, *filter.Status)
		argn++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", argn, argn, argn)
		args = append(args, "%"+filter.Search+"%")
		argn++
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM drivers "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("driver repository list count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM drivers %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, driverColumns, where, argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	drivers := []*Driver{}
	err = r.db.SelectContext(ctx, &drivers, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("driver repository list: %w", err)
	}

	return drivers, total, nil
}

// UpdateProfile updates name, phone and device token
func (r *repository) UpdateProfile(ctx context.Context, driver *Driver) error {
	query := `
		UPDATE drivers
		SET name = $2, phone = $3, device_token = $4, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, driver.ID, driver.Name, driver.Phone, driver.DeviceToken)
	if err != nil {
		return fmt.Errorf("driver repository update profile: %w", err)
	}

	return nil
}

// UpdateStatus changes the driver account status
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE drivers SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("driver repository update status: %w", err)
	}

	return nil
}

// UpdateDeviceToken stores the FCM token for push delivery
func (r *repository) UpdateDeviceToken(ctx context.Context, id uuid.UUID, token string) error {
	query := `
		UPDATE drivers SET device_token = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("driver repository update device token: %w", err)
	}

	return nil
}

// SoftDelete marks the driver as deleted
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE drivers SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("driver repository soft delete: %w", err)
	}

	return nil
}

// UpsertDocument inserts the document or replaces a previous upload of
// the same type, resetting it to pending review.
func (r *repository) UpsertDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO driver_documents (id, driver_id, type, file_key, status)
		VALUES ($1, $2, $3, $4, 'pending')
		ON CONFLICT (driver_id, type) WHERE deleted_at IS NULL
		DO UPDATE SET file_key = EXCLUDED.file_key, status = 'pending',
		              reject_reason = NULL, verified_by = NULL, verified_at = NULL,
		              updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, doc.ID, doc.DriverID, doc.Type, doc.FileKey)
	if err != nil {
		return fmt.Errorf("driver repository upsert document: %w", err)
	}

	return nil
}

// GetDocument returns the current document of a type for a driver
func (r *repository) GetDocument(ctx context.Context, driverID uuid.UUID, docType DocumentType) (*Document, error) {
	query := `
		SELECT id, driver_id, type, file_key, status, reject_reason, verified_by, verified_at,
		       created_at, updated_at, deleted_at
		FROM driver_documents
		WHERE driver_id = $1 AND type = $2 AND deleted_at IS NULL
	`
	var doc Document
	err := r.db.GetContext(ctx, &doc, query, driverID, docType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

// GetDocuments returns all documents for a driver
func (r *repository) GetDocuments(ctx context.Context, driverID uuid.UUID) ([]*Document, error) {
	query := `
		SELECT id, driver_id, type, file_key, status, reject_reason, verified_by, verified_at,
		       created_at, updated_at, deleted_at
		FROM driver_documents
		WHERE driver_id = $1 AND deleted_at IS NULL
		ORDER BY type
	`
	docs := []*Document{}
	err := r.db.SelectContext(ctx, &docs, query, driverID)
	if err != nil {
		return nil, fmt.Errorf("driver repository get documents: %w", err)
	}

	return docs, nil
}

// ReviewDocument writes the verdict and bumps rejection_count on
// rejection, atomically with the document update
func (r *repository) ReviewDocument(ctx context.Context, doc *Document, rejected bool) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("driver repository review document: %w", err)
	}
	defer tx.Rollback()

	docQuery := `
		UPDATE driver_documents
		SET status = $2, reject_reason = $3, verified_by = $4, verified_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err = tx.ExecContext(ctx, docQuery, doc.ID, doc.Status, doc.RejectReason, doc.VerifiedBy)
	if err != nil {
		return 0, fmt.Errorf("driver repository review document: %w", err)
	}

	rejectionCount := 0
	if rejected {
		err = tx.QueryRowContext(ctx, `
			UPDATE drivers SET rejection_count = rejection_count + 1, updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING rejection_count
		`, doc.DriverID).Scan(&rejectionCount)
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT rejection_count FROM drivers WHERE id = $1
		`, doc.DriverID).Scan(&rejectionCount)
	}
	if err != nil {
		return 0, fmt.Errorf("driver repository review document count: %w", err)
	}

	if rejected && rejectionCount >= MaxDocumentRejections {
		_, err = tx.ExecContext(ctx, `
			UPDATE drivers SET status = 'blocked', updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
		`, doc.DriverID)
		if err != nil {
			return 0, fmt.Errorf("driver repository review document block: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("driver repository review document commit: %w", err)
	}

	return rejectionCount, nil
}

// ListBelowBalance returns non-deleted, non-blocked drivers whose
// wallet balance is below the threshold
func (r *repository) ListBelowBalance(ctx context.Context, threshold int64) ([]*Driver, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM drivers
		WHERE deleted_at IS NULL AND status = 'active' AND wallet_balance < $1
	`, driverColumns)

	drivers := []*Driver{}
	err := r.db.SelectContext(ctx, &drivers, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("driver repository list below balance: %w", err)
	}

	return drivers, nil
}
