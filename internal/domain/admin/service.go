package admin

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/password"
)

// Service handles admin panel business logic
type Service struct {
	repo    Repository
	jwt     *JWTService
	revoker *TokenRevoker
}

// NewService creates admin service
func NewService(repo Repository, jwtService *JWTService, revoker *TokenRevoker) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwtService,
		revoker: revoker,
	}
}

// Login authenticates an admin and issues a session token
func (s *Service) Login(ctx context.Context, req *LoginRequest, ip string) (*LoginResponse, time.Time, error) {
	adminUser, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, time.Time{}, err
	}
	if adminUser == nil {
		return nil, time.Time{}, ErrInvalidCredentials
	}

	if !password.Verify(req.Password, adminUser.PasswordHash) {
		return nil, time.Time{}, ErrInvalidCredentials
	}

	if !adminUser.IsActive {
		return nil, time.Time{}, ErrAdminInactive
	}

	token, expiresAt, err := s.jwt.GenerateToken(adminUser)
	if err != nil {
		return nil, time.Time{}, err
	}

	if err := s.repo.UpdateLastLogin(ctx, adminUser.ID, ip); err != nil {
		log.Warn().Err(err).Str("admin_id", adminUser.ID.String()).Msg("Failed to record last login")
	}

	perms, err := s.repo.GetPermissions(ctx, adminUser.ID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load admin permissions on login")
	}

	s.recordAudit(ctx, adminUser, "admin.login", "admin", &adminUser.ID, nil, nil, "", ip)

	return &LoginResponse{
		AccessToken: token,
		Admin:       AdminResponseFromEntity(adminUser, perms),
	}, expiresAt, nil
}

// Logout revokes the presented session token
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.jwt.ValidateToken(tokenString)
	if err != nil {
		// Expired or malformed tokens have nothing to revoke
		return nil
	}

	return s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// GetProfile returns the admin's own account with permissions
func (s *Service) GetProfile(ctx context.Context, adminID uuid.UUID) (*AdminResponse, error) {
	adminUser, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if adminUser == nil {
		return nil, ErrAdminNotFound
	}

	perms, err := s.repo.GetPermissions(ctx, adminID)
	if err != nil {
		return nil, err
	}

	return AdminResponseFromEntity(adminUser, perms), nil
}

// HasAreaAccess reports whether the admin may use the functional area.
// Inactive and deleted admins lose access immediately.
func (s *Service) HasAreaAccess(ctx context.Context, adminID uuid.UUID, area Area) (bool, error) {
	adminUser, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return false, err
	}
	if adminUser == nil || !adminUser.IsActive {
		return false, nil
	}

	perms, err := s.repo.GetPermissions(ctx, adminID)
	if err != nil {
		return false, err
	}
	if perms == nil {
		return false, nil
	}

	return perms.Allows(area), nil
}

// CreateAdmin creates a new admin account. The actor must outrank the
// role being created.
func (s *Service) CreateAdmin(ctx context.Context, actorID uuid.UUID, req *CreateAdminRequest) (*AdminResponse, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	role := Role(req.Role)
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if !CanManage(actor.Role, role) {
		return nil, ErrCannotManageRole
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	newAdmin := &AdminUser{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
	}

	perms := DefaultPermissions(role)
	perms.AdminID = newAdmin.ID

	if err := s.repo.Create(ctx, newAdmin, &perms); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "admin.create", "admin", &newAdmin.ID, nil, newAdmin, "", "")

	return AdminResponseFromEntity(newAdmin, &perms), nil
}

// ListAdmins returns admins visible to the panel
func (s *Service) ListAdmins(ctx context.Context, limit, offset int) ([]*AdminResponse, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	admins, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*AdminResponse, 0, len(admins))
	for _, a := range admins {
		result = append(result, AdminResponseFromEntity(a, nil))
	}

	return result, total, nil
}

// GetAdmin returns a single admin with permissions
func (s *Service) GetAdmin(ctx context.Context, id uuid.UUID) (*AdminResponse, error) {
	adminUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if adminUser == nil {
		return nil, ErrAdminNotFound
	}

	perms, err := s.repo.GetPermissions(ctx, id)
	if err != nil {
		return nil, err
	}

	return AdminResponseFromEntity(adminUser, perms), nil
}

// UpdateAdmin changes name or role of another admin
func (s *Service) UpdateAdmin(ctx context.Context, actorID, targetID uuid.UUID, req *UpdateAdminRequest) (*AdminResponse, error) {
	actor, target, err := s.requireManageable(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	old := *target

	if req.Name != nil {
		target.Name = *req.Name
	}
	if req.Role != nil {
		newRole := Role(*req.Role)
		if !ValidRole(newRole) {
			return nil, ErrInvalidRole
		}
		// The actor must outrank the new role too, otherwise a role
		// change could promote the target past the actor.
		if !CanManage(actor.Role, newRole) {
			return nil, ErrCannotManageRole
		}
		target.Role = newRole
	}

	if err := s.repo.Update(ctx, target); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "admin.update", "admin", &target.ID, &old, target, "", "")

	perms, _ := s.repo.GetPermissions(ctx, target.ID)
	return AdminResponseFromEntity(target, perms), nil
}

// UpdateStatus activates or deactivates another admin. Admins can never
// change their own status.
func (s *Service) UpdateStatus(ctx context.Context, actorID, targetID uuid.UUID, req *UpdateStatusRequest) error {
	if actorID == targetID {
		return ErrCannotModifySelf
	}

	actor, target, err := s.requireManageable(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateStatus(ctx, targetID, req.IsActive); err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "admin.status", "admin", &target.ID,
		map[string]bool{"is_active": target.IsActive},
		map[string]bool{"is_active": req.IsActive},
		req.Reason, "")

	return nil
}

// UpdatePermissions replaces the permission flags of another admin.
// Admins can never change their own permissions.
func (s *Service) UpdatePermissions(ctx context.Context, actorID, targetID uuid.UUID, req *UpdatePermissionsRequest) (*Permissions, error) {
	if actorID == targetID {
		return nil, ErrCannotModifySelf
	}

	actor, target, err := s.requireManageable(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	old, err := s.repo.GetPermissions(ctx, targetID)
	if err != nil {
		return nil, err
	}

	perms := &Permissions{
		AdminID:   targetID,
		Dashboard: req.Dashboard,
		Drivers:   req.Drivers,
		Vehicles:  req.Vehicles,
		Rides:     req.Rides,
		Packages:  req.Packages,
		Wallet:    req.Wallet,
		Tickets:   req.Tickets,
		Admins:    req.Admins,
	}

	if err := s.repo.UpdatePermissions(ctx, perms); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "admin.permissions", "admin", &target.ID, old, perms, "", "")

	return perms, nil
}

// DeleteAdmin soft deletes another admin account
func (s *Service) DeleteAdmin(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID == targetID {
		return ErrCannotModifySelf
	}

	actor, target, err := s.requireManageable(ctx, actorID, targetID)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, targetID); err != nil {
		return err
	}

	s.recordAudit(ctx, actor, "admin.delete", "admin", &target.ID, target, nil, "", "")

	return nil
}

// ListAuditLogs returns audit entries
func (s *Service) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	return s.repo.ListAuditLogs(ctx, filter)
}

// GetDashboardStats returns the panel dashboard counters
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	return s.repo.GetDashboardStats(ctx)
}

// requireActor loads the acting admin and checks it is usable
func (s *Service) requireActor(ctx context.Context, actorID uuid.UUID) (*AdminUser, error) {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrAdminNotFound
	}
	if !actor.IsActive {
		return nil, ErrAdminInactive
	}

	return actor, nil
}

// requireManageable loads actor and target and enforces the role
// hierarchy between them
func (s *Service) requireManageable(ctx context.Context, actorID, targetID uuid.UUID) (*AdminUser, *AdminUser, error) {
	actor, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, ErrAdminNotFound
	}

	if !CanManage(actor.Role, target.Role) {
		return nil, nil, ErrCannotManageRole
	}

	return actor, target, nil
}

// recordAudit writes an audit log entry. Failures are logged, never
// surfaced to the caller.
func (s *Service) recordAudit(ctx context.Context, actor *AdminUser, action, entityType string, entityID *uuid.UUID, oldValue, newValue interface{}, reason, ip string) {
	entry := &AuditLog{
		ID:         uuid.New(),
		AdminID:    uuid.NullUUID{UUID: actor.ID, Valid: true},
		AdminEmail: actor.Email,
		Action:     action,
		EntityType: entityType,
	}
	if entityID != nil {
		entry.EntityID = uuid.NullUUID{UUID: *entityID, Valid: true}
	}
	if oldValue != nil {
		if b, err := json.Marshal(oldValue); err == nil {
			entry.OldValue = b
		}
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValue = b
		}
	}
	if reason != "" {
		entry.Reason.String = reason
		entry.Reason.Valid = true
	}
	if ip != "" {
		entry.IPAddress.String = ip
		entry.IPAddress.Valid = true
	}

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		log.Warn().Err(err).Str("action", action).Msg("Failed to write audit log")
	}
}
