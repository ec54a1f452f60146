package vehicle

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles vehicle HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates vehicle handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the admin vehicle router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /admin/vehicles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrPlateTaken:
			response.Conflict(w, "Plate number already registered")
		case ErrDriverNotFound:
			response.BadRequest(w, "Assigned driver does not exist")
		default:
			log.Error().Err(err).Str("plate", req.PlateNumber).Msg("failed to create vehicle")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// List handles GET /admin/vehicles
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := ListFilter{
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	if v := r.URL.Query().Get("active"); v != "" {
		active := v == "true"
		filter.Active = &active
	}

	vehicles, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list vehicles")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, vehicles, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Get handles GET /admin/vehicles/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID")
		return
	}

	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch err {
		case ErrVehicleNotFound:
			response.NotFound(w, "Vehicle not found")
		default:
			log.Error().Err(err).Msg("failed to get vehicle")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Update handles PATCH /admin/vehicles/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID")
		return
	}

	var req UpdateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case ErrVehicleNotFound:
			response.NotFound(w, "Vehicle not found")
		case ErrPlateTaken:
			response.Conflict(w, "Plate number already registered")
		case ErrDriverNotFound:
			response.BadRequest(w, "Assigned driver does not exist")
		default:
			log.Error().Err(err).Msg("failed to update vehicle")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Delete handles DELETE /admin/vehicles/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid vehicle ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		switch err {
		case ErrVehicleNotFound:
			response.NotFound(w, "Vehicle not found")
		default:
			log.Error().Err(err).Msg("failed to delete vehicle")
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}
