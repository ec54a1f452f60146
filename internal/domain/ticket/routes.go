package ticket

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MobileRoutes returns driver-facing ticket routes
func (h *Handler) MobileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/", h.ListOwn)
	r.Get("/{id}", h.GetOwn)
	r.Post("/{id}/reply", h.ReplyAsDriver)

	return r
}

// AdminRoutes returns admin panel ticket routes
func (h *Handler) AdminRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.AdminList)
	r.Get("/{id}", h.AdminGet)
	r.Post("/{id}/reply", h.AdminReply)
	r.Patch("/{id}/status", h.AdminUpdateStatus)

	return r
}
