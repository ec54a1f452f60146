package admin

import (
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /admin/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse after successful login
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	Admin       *AdminResponse `json:"admin"`
}

// AdminResponse represents admin in API
type AdminResponse struct {
	ID          uuid.UUID    `json:"id"`
	Email       string       `json:"email"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	IsActive    bool         `json:"is_active"`
	Permissions *Permissions `json:"permissions,omitempty"`
	LastLoginAt *string      `json:"last_login_at,omitempty"`
	CreatedAt   string       `json:"created_at"`
}

// AdminResponseFromEntity converts entity to response
func AdminResponseFromEntity(a *AdminUser, perms *Permissions) *AdminResponse {
	resp := &AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		Role:        string(a.Role),
		IsActive:    a.IsActive,
		Permissions: perms,
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}

	if a.LastLoginAt.Valid {
		s := a.LastLoginAt.Time.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}

	return resp
}

// CreateAdminRequest for POST /admin/admins
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Role     string `json:"role" validate:"required,admin_role"`
}

// UpdateAdminRequest for PATCH /admin/admins/{id}
type UpdateAdminRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role *string `json:"role,omitempty" validate:"omitempty,admin_role"`
}

// UpdateStatusRequest for PATCH /admin/admins/{id}/status
type UpdateStatusRequest struct {
	IsActive bool   `json:"is_active"`
	Reason   string `json:"reason,omitempty" validate:"max=500"`
}

// UpdatePermissionsRequest for PUT /admin/admins/{id}/permissions
type UpdatePermissionsRequest struct {
	Dashboard bool `json:"dashboard"`
	Drivers   bool `json:"drivers"`
	Vehicles  bool `json:"vehicles"`
	Rides     bool `json:"rides"`
	Packages  bool `json:"packages"`
	Wallet    bool `json:"wallet"`
	Tickets   bool `json:"tickets"`
	Admins    bool `json:"admins"`
}

// DashboardStats for GET /admin/dashboard/stats
type DashboardStats struct {
	Drivers  DriverStats  `json:"drivers"`
	Rides    RideStats    `json:"rides"`
	Revenue  RevenueStats `json:"revenue"`
	Tickets  TicketStats  `json:"tickets"`
	Vehicles VehicleStats `json:"vehicles"`
}

type DriverStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Active  int `json:"active"`
	Blocked int `json:"blocked"`
}

type RideStats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"this_week"`
	Completed int `json:"completed"`
}

type RevenueStats struct {
	Total     int64 `json:"total"`      // minor currency units
	ThisMonth int64 `json:"this_month"` // minor currency units
}

type TicketStats struct {
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
}

type VehicleStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// AuditFilter for filtering audit logs
type AuditFilter struct {
	AdminID    *uuid.UUID
	Action     *string
	EntityType *string
	Limit      int
	Offset     int
}
