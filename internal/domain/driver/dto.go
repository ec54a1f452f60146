package driver

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest for POST /v1/auth/register
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,e164"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest for POST /v1/auth/login
type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DeviceToken string `json:"device_token,omitempty"`
}

// RefreshRequest for POST /v1/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse carries the token pair after register/login/refresh
type AuthResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Driver       *DriverResponse `json:"driver,omitempty"`
}

// UpdateProfileRequest for PATCH /v1/profile
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,e164"`
	DeviceToken *string `json:"device_token,omitempty"`
}

// UpdateStatusRequest for PATCH /admin/drivers/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active blocked inactive"`
	Reason string `json:"reason,omitempty" validate:"max=500"`
}

// ReviewDocumentRequest for PATCH /admin/drivers/{id}/documents/{type}/verify
type ReviewDocumentRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty" validate:"max=500"`
}

// ListFilter for admin driver listing
type ListFilter struct {
	Status *Status
	Search string
	Limit  int
	Offset int
}

// DriverResponse represents driver in API
type DriverResponse struct {
	ID             uuid.UUID           `json:"id"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	Status         string              `json:"status"`
	WalletBalance  int64               `json:"wallet_balance"`
	RejectionCount int                 `json:"rejection_count"`
	Documents      []*DocumentResponse `json:"documents,omitempty"`
	CreatedAt      string              `json:"created_at"`
}

// DocumentResponse represents a document in API
type DocumentResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	URL          string    `json:"url,omitempty"`
	RejectReason *string   `json:"reject_reason,omitempty"`
	UploadedAt   string    `json:"uploaded_at"`
}

// DriverResponseFromEntity converts entity to response
func DriverResponseFromEntity(d *Driver, docs []*DocumentResponse) *DriverResponse {
	return &DriverResponse{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		Phone:          d.Phone,
		Status:         string(d.Status),
		WalletBalance:  d.WalletBalance,
		RejectionCount: d.RejectionCount,
		Documents:      docs,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
}

// DocumentResponseFromEntity converts entity to response. url may be
// empty when the caller should not see the file.
func DocumentResponseFromEntity(doc *Document, url string) *DocumentResponse {
	resp := &DocumentResponse{
		ID:         doc.ID,
		Type:       string(doc.Type),
		Status:     string(doc.Status),
		URL:        url,
		UploadedAt: doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.RejectReason.Valid {
		resp.RejectReason = &doc.RejectReason.String
	}
	return resp
}
