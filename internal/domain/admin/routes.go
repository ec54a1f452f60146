package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the admin panel router. authMiddleware authenticates
// the session, areaMiddleware builds the per-area permission gate.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler, areaMiddleware func(Area) func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// Public routes (no auth required)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)

	// Protected routes (auth required)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/auth/me", h.Me)

		r.Group(func(r chi.Router) {
			r.Use(areaMiddleware(AreaDashboard))
			r.Get("/dashboard/stats", h.DashboardStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(areaMiddleware(AreaAdmins))
			r.Post("/admins", h.Create)
			r.Get("/admins", h.List)
			r.Get("/admins/{id}", h.Get)
			r.Patch("/admins/{id}", h.Update)
			r.Patch("/admins/{id}/status", h.UpdateStatus)
			r.Put("/admins/{id}/permissions", h.UpdatePermissions)
			r.Delete("/admins/{id}", h.Delete)
			r.Get("/audit-logs", h.AuditLogs)
		})
	})

	return r
}
