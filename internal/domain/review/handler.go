package review

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/middleware"
	"github.com/ridehub/ridehub-api/internal/pkg/errorhandler"
	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles review HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates review handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/rides/{id}/review
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	rideID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ride ID")
		return
	}

	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rev, err := h.service.Create(r.Context(), driverID, rideID, &req)
	if err != nil {
		switch err {
		case ErrRideNotFound:
			response.NotFound(w, "Ride not found")
		case ErrNotRideOwner:
			response.Forbidden(w, "Ride belongs to another driver")
		case ErrRideNotCompleted:
			response.Conflict(w, "Only completed rides can be reviewed")
		case ErrAlreadyReviewed:
			response.Conflict(w, "Ride already reviewed")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_CREATION_FAILED", "Failed to create review", err)
		}
		return
	}

	response.Created(w, ResponseFromEntity(rev))
}

// ListOwn handles GET /v1/reviews
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reviews, total, err := h.service.ListOwn(r.Context(), driverID, limit, (page-1)*limit)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "REVIEW_LIST_FAILED", "Failed to list reviews", err)
		return
	}

	out := make([]*Response, 0, len(reviews))
	for _, rev := range reviews {
		out = append(out, ResponseFromEntity(rev))
	}

	response.WithMeta(w, out, response.Meta{Page: page, Limit: limit, Total: total})
}

// MobileRoutes returns driver-facing review routes.
// The create route is mounted under /v1/rides by the server.
func (h *Handler) MobileRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListOwn)

	return r
}
