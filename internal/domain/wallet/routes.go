package wallet

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MobileRoutes returns the driver wallet router mounted under /api/v1/wallet
func (h *Handler) MobileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Get("/", h.Balance)
	r.Get("/reports", h.Reports)
	r.Post("/topup", h.Topup)
	r.Post("/verify", h.Verify)

	return r
}
