package admin

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role represents admin role
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleExecutiveAdmin Role = "executive_admin"
	RoleRideManager    Role = "ride_manager"
)

// AdminUser represents an admin panel user
type AdminUser struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Name         string         `db:"name" json:"name"`
	Role         Role           `db:"role" json:"role"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	LastLoginAt  sql.NullTime   `db:"last_login_at" json:"last_login_at,omitempty"`
	LastLoginIP  sql.NullString `db:"last_login_ip" json:"last_login_ip,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	DeletedAt    sql.NullTime   `db:"deleted_at" json:"-"`
}

// Permissions holds the per-admin boolean flags controlling access to
// functional areas of the panel.
type Permissions struct {
	AdminID   uuid.UUID `db:"admin_id" json:"-"`
	Dashboard bool      `db:"dashboard" json:"dashboard"`
	Drivers   bool      `db:"drivers" json:"drivers"`
	Vehicles  bool      `db:"vehicles" json:"vehicles"`
	Rides     bool      `db:"rides" json:"rides"`
	Packages  bool      `db:"packages" json:"packages"`
	Wallet    bool      `db:"wallet" json:"wallet"`
	Tickets   bool      `db:"tickets" json:"tickets"`
	Admins    bool      `db:"admins" json:"admins"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Allows reports whether the given functional area is enabled
func (p *Permissions) Allows(area Area) bool {
	switch area {
	case AreaDashboard:
		return p.Dashboard
	case AreaDrivers:
		return p.Drivers
	case AreaVehicles:
		return p.Vehicles
	case AreaRides:
		return p.Rides
	case AreaPackages:
		return p.Packages
	case AreaWallet:
		return p.Wallet
	case AreaTickets:
		return p.Tickets
	case AreaAdmins:
		return p.Admins
	}
	return false
}

// AuditLog represents an admin action log entry
type AuditLog struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	AdminID    uuid.NullUUID   `db:"admin_id" json:"admin_id,omitempty"`
	AdminEmail string          `db:"admin_email" json:"admin_email"`
	Action     string          `db:"action" json:"action"`
	EntityType string          `db:"entity_type" json:"entity_type"`
	EntityID   uuid.NullUUID   `db:"entity_id" json:"entity_id,omitempty"`
	OldValue   json.RawMessage `db:"old_value" json:"old_value,omitempty"`
	NewValue   json.RawMessage `db:"new_value" json:"new_value,omitempty"`
	Reason     sql.NullString  `db:"reason" json:"reason,omitempty"`
	IPAddress  sql.NullString  `db:"ip_address" json:"ip_address,omitempty"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
