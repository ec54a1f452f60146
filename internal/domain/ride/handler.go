package ride

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/response"
)

// Handler handles ride reporting HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates ride handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the admin ride router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/summary", h.Summary)
	r.Get("/export", h.Export)
	r.Get("/{id}", h.Get)

	return r
}

// List handles GET /admin/rides
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
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
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	rides, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list rides")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, rides, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// Get handles GET /admin/rides/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ride ID")
		return
	}

	result, err := h.service.Get(r.Context(), id)
	if err != nil {
		switch err {
		case ErrRideNotFound:
			response.NotFound(w, "Ride not found")
		default:
			log.Error().Err(err).Msg("failed to get ride")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Summary handles GET /admin/rides/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	summary, err := h.service.Summarize(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to summarize rides")
		response.InternalError(w)
		return
	}

	response.OK(w, summary)
}

// Export handles GET /admin/rides/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	file, err := h.service.Export(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to export rides")
		response.InternalError(w)
		return
	}

	filename := ExportFilename(time.Now())
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := file.Write(w); err != nil {
		log.Error().Err(err).Msg("failed to write ride export")
	}
}

func parseFilter(r *http.Request) (Filter, error) {
	filter := Filter{}
	q := r.URL.Query()

	if v := q.Get("driver_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, fmt.Errorf("invalid driver_id filter")
		}
		filter.DriverID = &id
	}
	if v := q.Get("status"); v != "" {
		status := Status(v)
		switch status {
		case StatusCompleted, StatusCancelled, StatusOngoing:
			filter.Status = &status
		default:
			return filter, fmt.Errorf("unknown status filter")
		}
	}
	if v := q.Get("payment_mode"); v != "" {
		mode := PaymentMode(v)
		switch mode {
		case PaymentCash, PaymentCard, PaymentWallet:
			filter.PaymentMode = &mode
		default:
			return filter, fmt.Errorf("unknown payment_mode filter")
		}
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("from must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, fmt.Errorf("to must be YYYY-MM-DD")
		}
		// Inclusive end date
		end := t.AddDate(0, 0, 1)
		filter.To = &end
	}

	return filter, nil
}
