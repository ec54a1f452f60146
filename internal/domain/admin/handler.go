package admin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles admin panel HTTP requests
type Handler struct {
	service      *Service
	secureCookie bool
}

// NewHandler creates admin handler. secureCookie controls the Secure
// flag on the session cookie and should be true outside development.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		secureCookie: secureCookie,
	}
}

// Login handles POST /admin/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, expiresAt, err := h.service.Login(r.Context(), &req, clientIP(r))
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.Unauthorized(w, "Invalid email or password")
		case ErrAdminInactive:
			response.Forbidden(w, "Account is deactivated")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("failed to login admin")
			response.InternalError(w)
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    result.AccessToken,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, result)
}

// Logout handles POST /admin/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := ""
	if cookie, err := r.Cookie(AdminTokenCookie); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenString != "" {
		if err := h.service.Logout(r.Context(), tokenString); err != nil {
			log.Warn().Err(err).Msg("failed to revoke admin token")
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AdminTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	response.OK(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /admin/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, ok := GetAdminID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.GetProfile(r.Context(), adminID)
	if err != nil {
		switch err {
		case ErrAdminNotFound:
			response.NotFound(w, "Admin not found")
		default:
			log.Error().Err(err).Msg("failed to load admin profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Create handles POST /admin/admins
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, _ := GetAdminID(r.Context())

	var req CreateAdminRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.CreateAdmin(r.Context(), actorID, &req)
	if err != nil {
		switch err {
		case ErrInvalidRole:
			response.BadRequest(w, "Unknown admin role")
		case ErrCannotManageRole:
			response.Forbidden(w, "Cannot create admin with equal or higher role")
		case ErrEmailTaken:
			response.Conflict(w, "Email already in use")
		case ErrAdminInactive:
			response.Forbidden(w, "Account is deactivated")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("failed to create admin")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// List handles GET /admin/admins
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	admins, total, err := h.service.ListAdmins(r.Context(), limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list admins")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, admins, paginationMeta(total, page, limit))
}

// Get handles GET /admin/admins/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	result, err := h.service.GetAdmin(r.Context(), id)
	if err != nil {
		switch err {
		case ErrAdminNotFound:
			response.NotFound(w, "Admin not found")
		default:
			log.Error().Err(err).Str("admin_id", id.String()).Msg("failed to get admin")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Update handles PATCH /admin/admins/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, _ := GetAdminID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	var req UpdateAdminRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.UpdateAdmin(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeManageError(w, err, "failed to update admin")
		return
	}

	response.OK(w, result)
}

// UpdateStatus handles PATCH /admin/admins/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, _ := GetAdminID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), actorID, id, &req); err != nil {
		h.writeManageError(w, err, "failed to update admin status")
		return
	}

	response.OK(w, map[string]string{"message": "Status updated"})
}

// UpdatePermissions handles PUT /admin/admins/{id}/permissions
func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	actorID, _ := GetAdminID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	var req UpdatePermissionsRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	result, err := h.service.UpdatePermissions(r.Context(), actorID, id, &req)
	if err != nil {
		h.writeManageError(w, err, "failed to update admin permissions")
		return
	}

	response.OK(w, result)
}

// Delete handles DELETE /admin/admins/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := GetAdminID(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid admin ID")
		return
	}

	if err := h.service.DeleteAdmin(r.Context(), actorID, id); err != nil {
		h.writeManageError(w, err, "failed to delete admin")
		return
	}

	response.NoContent(w)
}

// AuditLogs handles GET /admin/audit-logs
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)

	filter := AuditFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := r.URL.Query().Get("admin_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			response.BadRequest(w, "Invalid admin_id filter")
			return
		}
		filter.AdminID = &id
	}
	if v := r.URL.Query().Get("action"); v != "" {
		filter.Action = &v
	}
	if v := r.URL.Query().Get("entity_type"); v != "" {
		filter.EntityType = &v
	}

	logs, total, err := h.service.ListAuditLogs(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list audit logs")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, logs, paginationMeta(total, page, limit))
}

// DashboardStats handles GET /admin/dashboard/stats
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard stats")
		response.InternalError(w)
		return
	}

	response.OK(w, stats)
}

func (h *Handler) writeManageError(w http.ResponseWriter, err error, logMsg string) {
	switch err {
	case ErrAdminNotFound:
		response.NotFound(w, "Admin not found")
	case ErrCannotModifySelf:
		response.Forbidden(w, "Cannot modify your own account")
	case ErrCannotManageRole:
		response.Forbidden(w, "Cannot manage admin with equal or higher role")
	case ErrAdminInactive:
		response.Forbidden(w, "Account is deactivated")
	case ErrInvalidRole:
		response.BadRequest(w, "Unknown admin role")
	default:
		log.Error().Err(err).Msg(logMsg)
		response.InternalError(w)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}

func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func paginationMeta(total, page, limit int) response.Meta {
	pages := (total + limit - 1) / limit
	return response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
