package ticket

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/domain/admin"
	"github.com/ridehub/ridehub-api/internal/middleware"
	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles support ticket HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates ticket handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /v1/tickets
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
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

	t, err := h.service.Create(r.Context(), driverID, &req)
	if err != nil {
		log.Error().Err(err).Msg("failed to create ticket")
		response.InternalError(w)
		return
	}

	response.Created(w, t)
}

// ListOwn handles GET /v1/tickets
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, limit := pageParams(r)
	tickets, total, err := h.service.ListOwn(r.Context(), driverID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tickets")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, tickets, response.Meta{Page: page, Limit: limit, Total: total})
}

// GetOwn handles GET /v1/tickets/{id}
func (h *Handler) GetOwn(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	t, err := h.service.GetOwn(r.Context(), driverID, ticketID)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	response.OK(w, t)
}

// ReplyAsDriver handles POST /v1/tickets/{id}/reply
func (h *Handler) ReplyAsDriver(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	var req ReplyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	reply, err := h.service.ReplyAsDriver(r.Context(), driverID, ticketID, &req)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	response.Created(w, reply)
}

// AdminList handles GET /admin/tickets
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	filter := ListFilter{Limit: limit, Offset: (page - 1) * limit}

	if s := r.URL.Query().Get("status"); s != "" {
		status := Status(s)
		switch status {
		case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
			filter.Status = &status
		default:
			response.BadRequest(w, "Invalid status filter")
			return
		}
	}
	if d := r.URL.Query().Get("driver_id"); d != "" {
		driverID, err := uuid.Parse(d)
		if err != nil {
			response.BadRequest(w, "Invalid driver_id filter")
			return
		}
		filter.DriverID = &driverID
	}

	tickets, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tickets")
		response.InternalError(w)
		return
	}

	response.WithMeta(w, tickets, response.Meta{Page: page, Limit: limit, Total: total})
}

// AdminGet handles GET /admin/tickets/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	t, err := h.service.Get(r.Context(), ticketID)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	response.OK(w, t)
}

// AdminReply handles POST /admin/tickets/{id}/reply
func (h *Handler) AdminReply(w http.ResponseWriter, r *http.Request) {
	adminID, ok := admin.GetAdminID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	var req ReplyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	reply, err := h.service.ReplyAsAdmin(r.Context(), adminID, ticketID, &req)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	response.Created(w, reply)
}

// AdminUpdateStatus handles PATCH /admin/tickets/{id}/status
func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid ticket ID")
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	t, err := h.service.UpdateStatus(r.Context(), ticketID, &req)
	if err != nil {
		h.writeTicketError(w, err)
		return
	}

	response.OK(w, t)
}

func (h *Handler) writeTicketError(w http.ResponseWriter, err error) {
	switch err {
	case ErrTicketNotFound:
		response.NotFound(w, "Ticket not found")
	case ErrNotTicketOwner:
		response.Forbidden(w, "Ticket belongs to another driver")
	case ErrTicketClosed:
		response.Conflict(w, "Ticket is closed")
	default:
		log.Error().Err(err).Msg("ticket operation failed")
		response.InternalError(w)
	}
}

func pageParams(r *http.Request) (page, limit int) {
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
