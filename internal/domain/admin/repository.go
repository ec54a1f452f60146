package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines admin data access interface
type Repository interface {
	Create(ctx context.Context, admin *AdminUser, perms *Permissions) error
	GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*AdminUser, error)
	List(ctx context.Context, limit, offset int) ([]*AdminUser, int, error)
	Update(ctx context.Context, admin *AdminUser) error
	UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error

	GetPermissions(ctx context.Context, adminID uuid.UUID) (*Permissions, error)
	UpdatePermissions(ctx context.Context, perms *Permissions) error

	CreateAuditLog(ctx context.Context, log *AuditLog) error
	ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error)

	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

// repository implements Repository
type repository struct {
	db *sqlx.DB
}

// NewRepository creates new admin repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the admin and its permission row in one transaction
func (r *repository) Create(ctx context.Context, admin *AdminUser, perms *Permissions) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("admin repository create: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO admins (id, email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Name,
		admin.Role,
		admin.IsActive,
	)
	if err != nil {
		return fmt.Errorf("admin repository create: %w", err)
	}

	permsQuery := `
		INSERT INTO admin_permissions (admin_id, dashboard, drivers, vehicles, rides, packages, wallet, tickets, admins)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, permsQuery,
		admin.ID,
		perms.Dashboard,
		perms.Drivers,
		perms.Vehicles,
		perms.Rides,
		perms.Packages,
		perms.Wallet,
		perms.Tickets,
		perms.Admins,
	)
	if err != nil {
		return fmt.Errorf("admin repository create permissions: %w", err)
	}

	return tx.Commit()
}

// GetByID returns admin by ID, excluding soft-deleted rows
func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, role, is_active,
		       last_login_at, last_login_ip, created_at, updated_at, deleted_at
		FROM admins WHERE id = $1 AND deleted_at IS NULL
	`
	var admin AdminUser
	err := r.db.GetContext(ctx, &admin, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &admin, nil
}

// GetByEmail returns admin by email
func (r *repository) GetByEmail(ctx context.Context, email string) (*AdminUser, error) {
	query := `
		SELECT id, email, password_hash, name, role, is_active,
		       last_login_at, last_login_ip, created_at, updated_at, deleted_at
		FROM admins WHERE email = $1 AND deleted_at IS NULL
	`
	var admin AdminUser
	err := r.db.GetContext(ctx, &admin, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &admin, nil
}

// List returns admins with total count
func (r *repository) List(ctx context.Context, limit, offset int) ([]*AdminUser, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM admins WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repository list count: %w", err)
	}

	query := `
		SELECT id, email, password_hash, name, role, is_active,
		       last_login_at, last_login_ip, created_at, updated_at, deleted_at
		FROM admins
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	admins := []*AdminUser{}
	err = r.db.SelectContext(ctx, &admins, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repository list: %w", err)
	}

	return admins, total, nil
}

// Update updates name and role
func (r *repository) Update(ctx context.Context, admin *AdminUser) error {
	query := `
		UPDATE admins
		SET name = $2, role = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, admin.ID, admin.Name, admin.Role)
	if err != nil {
		return fmt.Errorf("admin repository update: %w", err)
	}

	return nil
}

// UpdateStatus activates or deactivates an admin
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, isActive bool) error {
	query := `
		UPDATE admins SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id, isActive)
	if err != nil {
		return fmt.Errorf("admin repository update status: %w", err)
	}

	return nil
}

// SoftDelete marks the admin as deleted
func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE admins SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("admin repository soft delete: %w", err)
	}

	return nil
}

// UpdateLastLogin records login time and IP
func (r *repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	query := `
		UPDATE admins SET last_login_at = NOW(), last_login_ip = $2
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, id, ip)
	if err != nil {
		return fmt.Errorf("admin repository update last login: %w", err)
	}

	return nil
}

// GetPermissions returns the permission flags for an admin
func (r *repository) GetPermissions(ctx context.Context, adminID uuid.UUID) (*Permissions, error) {
	query := `
		SELECT admin_id, dashboard, drivers, vehicles, rides, packages, wallet, tickets, admins, updated_at
		FROM admin_permissions WHERE admin_id = $1
	`
	var perms Permissions
	err := r.db.GetContext(ctx, &perms, query, adminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &perms, nil
}

// UpdatePermissions replaces the permission flags
func (r *repository) UpdatePermissions(ctx context.Context, perms *Permissions) error {
	query := `
		UPDATE admin_permissions
		SET dashboard = $2, drivers = $3, vehicles = $4, rides = $5,
		    packages = $6, wallet = $7, tickets = $8, admins = $9, updated_at = NOW()
		WHERE admin_id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		perms.AdminID,
		perms.Dashboard,
		perms.Drivers,
		perms.Vehicles,
		perms.Rides,
		perms.Packages,
		perms.Wallet,
		perms.Tickets,
		perms.Admins,
	)
	if err != nil {
		return fmt.Errorf("admin repository update permissions: %w", err)
	}

	return nil
}

// CreateAuditLog inserts an audit entry
func (r *repository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	query := `
		INSERT INTO admin_audit_logs (id, admin_id, admin_email, action, entity_type, entity_id, old_value, new_value, reason, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.AdminID,
		log.AdminEmail,
		log.Action,
		log.EntityType,
		log.EntityID,
		log.OldValue,
		log.NewValue,
		log.Reason,
		log.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("admin repository create audit log: %w", err)
	}

	return nil
}

// ListAuditLogs returns audit entries matching the filter
func (r *repository) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argn := 1

	if filter.AdminID != nil {
		where += fmt.Sprintf(" AND admin_id = $%d", argn)
		args = append(args, *filter.AdminID)
		argn++
	}
	if filter.Action != nil {
		where += fmt.Sprintf(" AND action = $%d", argn)
		args = append(args, *filter.Action)
		argn++
	}
	if filter.EntityType != nil {
		where += fmt.Sprintf(" AND entity_type = $%d", argn)
		args = append(args, *filter.EntityType)
		argn++
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM admin_audit_logs "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repository audit count: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT id, admin_id, admin_email, action, entity_type, entity_id, old_value, new_value, reason, ip_address, created_at
		FROM admin_audit_logs %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argn, argn+1)
	args = append(args, limit, filter.Offset)

	logs := []*AuditLog{}
	err = r.db.SelectContext(ctx, &logs, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("admin repository audit list: %w", err)
	}

	return logs, total, nil
}

// GetDashboardStats aggregates the panel dashboard counters
func (r *repository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	driverQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'blocked') AS blocked
		FROM drivers WHERE deleted_at IS NULL
	`
	err := r.db.QueryRowContext(ctx, driverQuery).Scan(
		&stats.Drivers.Total, &stats.Drivers.Pending, &stats.Drivers.Active, &stats.Drivers.Blocked,
	)
	if err != nil {
		return nil, fmt.Errorf("admin repository dashboard drivers: %w", err)
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	rideQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= $1) AS today,
			COUNT(*) FILTER (WHERE created_at >= $2) AS this_week,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed
		FROM rides
	`
	err = r.db.QueryRowContext(ctx, rideQuery, startOfDay, startOfWeek).Scan(
		&stats.Rides.Total, &stats.Rides.Today, &stats.Rides.ThisWeek, &stats.Rides.Completed,
	)
	if err != nil {
		return nil, fmt.Errorf("admin repository dashboard rides: %w", err)
	}

	revenueQuery := `
		SELECT
			COALESCE(SUM(fare), 0) AS total,
			COALESCE(SUM(fare) FILTER (WHERE created_at >= $1), 0) AS this_month
		FROM rides WHERE status = 'completed'
	`
	err = r.db.QueryRowContext(ctx, revenueQuery, startOfMonth).Scan(
		&stats.Revenue.Total, &stats.Revenue.ThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("admin repository dashboard revenue: %w", err)
	}

	ticketQuery := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'open') AS open,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress
		FROM tickets
	`
	err = r.db.QueryRowContext(ctx, ticketQuery).Scan(
		&stats.Tickets.Open, &stats.Tickets.InProgress,
	)
	if err != nil {
		return nil, fmt.Errorf("admin repository dashboard tickets: %w", err)
	}

	vehicleQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_active) AS active
		FROM vehicles WHERE deleted_at IS NULL
	`
	err = r.db.QueryRowContext(ctx, vehicleQuery).Scan(
		&stats.Vehicles.Total, &stats.Vehicles.Active,
	)
	if err != nil {
		return nil, fmt.Errorf("admin repository dashboard vehicles: %w", err)
	}

	return stats, nil
}
