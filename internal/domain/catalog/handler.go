package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles catalog HTTP requests
type Handler struct {
	service  *Service
	currency string
}

// NewHandler creates catalog handler
func NewHandler(service *Service, currency string) *Handler {
	return &Handler{service: service, currency: currency}
}

// AdminPackageRoutes returns package management routes mounted under /api/admin/packages
func (h *Handler) AdminPackageRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreatePackage)
	r.Get("/", h.ListPackages)
	r.Get("/{id}", h.GetPackage)
	r.Patch("/{id}", h.UpdatePackage)
	r.Delete("/{id}", h.DeletePackage)
	r.Post("/{id}/subpackages", h.CreateSubPackage)

	return r
}

// AdminSubPackageRoutes returns sub-package management routes mounted under /api/admin/subpackages
func (h *Handler) AdminSubPackageRoutes() chi.Router {
	r := chi.NewRouter()

	r.Patch("/{id}", h.UpdateSubPackage)
	r.Delete("/{id}", h.DeleteSubPackage)
	r.Put("/{id}/price", h.SetPrice)

	return r
}

// MobileRoutes returns the driver-facing catalog router
func (h *Handler) MobileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.Browse)
	r.Get("/{id}/prices", h.Prices)

	return r
}

// CreatePackage handles POST /admin/packages
func (h *Handler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req CreatePackageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.CreatePackage(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrNameTaken:
			response.Conflict(w, "Package name already in use")
		default:
			log.Error().Err(err).Str("name", req.Name).Msg("failed to create package")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// ListPackages handles GET /admin/packages
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list packages")
		response.InternalError(w)
		return
	}

	response.OK(w, packages)
}

// GetPackage handles GET /admin/packages/{id}
func (h *Handler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	result, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			log.Error().Err(err).Msg("failed to get package")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// UpdatePackage handles PATCH /admin/packages/{id}
func (h *Handler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	var req UpdatePackageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.UpdatePackage(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		case ErrNameTaken:
			response.Conflict(w, "Package name already in use")
		default:
			log.Error().Err(err).Msg("failed to update package")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// DeletePackage handles DELETE /admin/packages/{id}
func (h *Handler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	if err := h.service.DeletePackage(r.Context(), id); err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			log.Error().Err(err).Msg("failed to delete package")
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// CreateSubPackage handles POST /admin/packages/{id}/subpackages
func (h *Handler) CreateSubPackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	var req CreateSubPackageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.CreateSubPackage(r.Context(), packageID, &req)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		case ErrNameTaken:
			response.Conflict(w, "Sub-package name already in use")
		default:
			log.Error().Err(err).Msg("failed to create sub-package")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// UpdateSubPackage handles PATCH /admin/subpackages/{id}
func (h *Handler) UpdateSubPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sub-package ID")
		return
	}

	var req UpdateSubPackageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.UpdateSubPackage(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrSubPackageNotFound:
			response.NotFound(w, "Sub-package not found")
		case ErrNameTaken:
			response.Conflict(w, "Sub-package name already in use")
		default:
			log.Error().Err(err).Msg("failed to update sub-package")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// DeleteSubPackage handles DELETE /admin/subpackages/{id}
func (h *Handler) DeleteSubPackage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sub-package ID")
		return
	}

	if err := h.service.DeleteSubPackage(r.Context(), id); err != nil {
		switch err {
		case ErrSubPackageNotFound:
			response.NotFound(w, "Sub-package not found")
		default:
			log.Error().Err(err).Msg("failed to delete sub-package")
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// SetPrice handles PUT /admin/subpackages/{id}/price
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid sub-package ID")
		return
	}

	var req SetPriceRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.SetPrice(r.Context(), id, &req, h.currency)
	if err != nil {
		switch err {
		case ErrSubPackageNotFound:
			response.NotFound(w, "Sub-package not found")
		default:
			log.Error().Err(err).Msg("failed to set price")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Browse handles GET /v1/packages
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	packages, err := h.service.BrowsePackages(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to browse packages")
		response.InternalError(w)
		return
	}

	response.OK(w, packages)
}

// Prices handles GET /v1/packages/{id}/prices
func (h *Handler) Prices(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid package ID")
		return
	}

	prices, err := h.service.GetPrices(r.Context(), id)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			response.NotFound(w, "Package not found")
		default:
			log.Error().Err(err).Msg("failed to get prices")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, prices)
}
