package wallet

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/middleware"
	"github.com/ridehub/ridehub-api/internal/pkg/response"
	"github.com/ridehub/ridehub-api/internal/pkg/validator"
)

// Handler handles wallet HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates wallet handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Balance handles GET /v1/wallet
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.GetBalance(r.Context(), driverID)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Msg("failed to load wallet balance")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Reports handles GET /v1/wallet/reports
func (h *Handler) Reports(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	h.writeReports(w, r, driverID)
}

// Topup handles POST /v1/wallet/topup
func (h *Handler) Topup(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req TopupRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.AddMoney(r.Context(), driverID, &req)
	if err != nil {
		switch err {
		case ErrInvalidAmount:
			response.BadRequest(w, "Amount must be positive")
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to create topup order")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// Verify handles POST /v1/wallet/verify
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req VerifyRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), driverID, &req)
	if err != nil {
		switch err {
		case ErrOrderNotFound:
			response.NotFound(w, "Order not found")
		case ErrOrderNotOwned:
			response.Forbidden(w, "Order belongs to another driver")
		case ErrOrderAlreadyPaid:
			response.Conflict(w, "Order has already been processed")
		case ErrInvalidSignature:
			response.Unauthorized(w, "Payment signature verification failed")
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Str("order_id", req.OrderID).Msg("failed to verify payment")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// AdminWallet handles GET /admin/drivers/{id}/wallet
func (h *Handler) AdminWallet(w http.ResponseWriter, r *http.Request) {
	driverID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid driver ID")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), driverID)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Msg("failed to load wallet for admin")
			response.InternalError(w)
		}
		return
	}

	page, limit := pageParams(r)
	reports, total, err := h.service.ListReports(r.Context(), driverID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list wallet reports for admin")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, map[string]interface{}{
		"balance": balance,
		"reports": reports,
	}, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

func (h *Handler) writeReports(w http.ResponseWriter, r *http.Request, driverID uuid.UUID) {
	page, limit := pageParams(r)

	reports, total, err := h.service.ListReports(r.Context(), driverID, limit, (page-1)*limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list wallet reports")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, reports, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
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
