package driver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MobileRoutes returns the driver-facing router mounted under /api/v1
func (h *Handler) MobileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/profile", h.Profile)
		r.Patch("/profile", h.UpdateProfile)
		r.Post("/documents", h.UploadDocument)
	})

	return r
}

// AdminRoutes returns the admin-facing driver router
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.AdminList)
	r.Get("/{id}", h.AdminGet)
	r.Patch("/{id}/status", h.AdminUpdateStatus)
	r.Patch("/{id}/documents/{type}/verify", h.AdminReviewDocument)

	return r
}
