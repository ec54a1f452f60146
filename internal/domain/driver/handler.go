package driver

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

// Handler handles driver HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates driver handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register handles POST /v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrEmailTaken:
			response.Conflict(w, "Email already registered")
		case ErrPhoneTaken:
			response.Conflict(w, "Phone already registered")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("failed to register driver")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// Login handles POST /v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCreds:
			response.Unauthorized(w, "Invalid email or password")
		default:
			log.Error().Err(err).Str("email", req.Email).Msg("failed to login driver")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Refresh handles POST /v1/auth/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.Unauthorized(w, "Invalid refresh token")
		default:
			response.Unauthorized(w, "Invalid or expired refresh token")
		}
		return
	}

	response.OK(w, result)
}

// Profile handles GET /v1/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.GetProfile(r.Context(), driverID)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Msg("failed to load driver profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// UpdateProfile handles PATCH /v1/profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.UpdateProfile(r.Context(), driverID, &req)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		case ErrPhoneTaken:
			response.Conflict(w, "Phone already registered")
		default:
			log.Error().Err(err).Msg("failed to update driver profile")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// UploadDocument handles POST /v1/documents (multipart form with
// fields "type" and "file")
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	driverID, ok := middleware.GetDriverID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(MaxDocumentSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	docType := DocumentType(r.FormValue("type"))

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Missing file")
		return
	}
	defer file.Close()

	contentType := DetectContentType(header.Header.Get("Content-Type"), header.Filename)

	result, err := h.service.UploadDocument(r.Context(), driverID, docType, file, header.Size, contentType)
	if err != nil {
		switch err {
		case ErrInvalidDocType:
			response.BadRequest(w, "Document type must be license or emirates_id")
		case ErrFileTooLarge:
			response.BadRequest(w, "File exceeds the 10 MB limit")
		case ErrUnsupportedFile:
			response.BadRequest(w, "Only JPEG, PNG and PDF files are accepted")
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to upload document")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// AdminList handles GET /admin/drivers
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := Status(v)
		switch status {
		case StatusPending, StatusActive, StatusBlocked, StatusInactive:
			filter.Status = &status
		default:
			response.BadRequest(w, "Unknown status filter")
			return
		}
	}

	drivers, total, err := h.service.ListDrivers(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list drivers")
		response.InternalError(w)
		return
	}

	pages := (total + limit - 1) / limit
	response.WithMeta(w, drivers, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	})
}

// AdminGet handles GET /admin/drivers/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid driver ID")
		return
	}

	result, err := h.service.GetDriver(r.Context(), id)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		default:
			log.Error().Err(err).Str("driver_id", id.String()).Msg("failed to get driver")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// AdminUpdateStatus handles PATCH /admin/drivers/{id}/status
func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid driver ID")
		return
	}

	var req UpdateStatusRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, &req); err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		case ErrInvalidStatus:
			response.BadRequest(w, "Unknown driver status")
		default:
			log.Error().Err(err).Str("driver_id", id.String()).Msg("failed to update driver status")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]string{"message": "Status updated"})
}

// AdminReviewDocument handles PATCH /admin/drivers/{id}/documents/{type}/verify
func (h *Handler) AdminReviewDocument(w http.ResponseWriter, r *http.Request) {
	driverID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid driver ID")
		return
	}
	docType := DocumentType(chi.URLParam(r, "type"))

	adminID, ok := admin.GetAdminID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req ReviewDocumentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	result, err := h.service.ReviewDocument(r.Context(), adminID, driverID, docType, &req)
	if err != nil {
		switch err {
		case ErrDriverNotFound:
			response.NotFound(w, "Driver not found")
		case ErrDocumentNotFound:
			response.NotFound(w, "Document not found")
		case ErrInvalidDocType:
			response.BadRequest(w, "Document type must be license or emirates_id")
		case ErrDocumentNotPending:
			response.Conflict(w, "Document has already been reviewed")
		case ErrReasonRequired:
			response.BadRequest(w, "Rejection reason is required")
		default:
			log.Error().Err(err).Str("driver_id", driverID.String()).Msg("failed to review document")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}
