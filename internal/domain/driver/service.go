package driver

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/pkg/jwt"
	"github.com/ridehub/ridehub-api/internal/pkg/password"
	"github.com/ridehub/ridehub-api/internal/pkg/push"
	"github.com/ridehub/ridehub-api/internal/pkg/storage"
)

// MaxDocumentSize limits uploaded document size to 10 MB
const MaxDocumentSize = 10 << 20

var allowedDocumentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Service handles driver business logic
type Service struct {
	repo    Repository
	jwt     *jwt.Service
	storage storage.Storage
	push    *push.FCMClient
}

// NewService creates driver service
func NewService(repo Repository, jwtService *jwt.Service, store storage.Storage, fcm *push.FCMClient) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwtService,
		storage: store,
		push:    fcm,
	}
}

// Register creates a driver account in pending status
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.repo.GetByPhone(ctx, req.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Status:       StatusPending,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	return s.issueTokens(d)
}

// Login authenticates a driver. Blocked drivers still receive a token;
// the auth middleware rejects their protected requests so the app can
// show the blocked state.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	d, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrInvalidCreds
	}

	if !password.Verify(req.Password, d.PasswordHash) {
		return nil, ErrInvalidCreds
	}

	if req.DeviceToken != "" {
		if err := s.repo.UpdateDeviceToken(ctx, d.ID, req.DeviceToken); err != nil {
			log.Warn().Err(err).Str("driver_id", d.ID.String()).Msg("Failed to store device token")
		}
	}

	return s.issueTokens(d)
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, req *RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.GetByID(ctx, claims.DriverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	return s.issueTokens(d)
}

func (s *Service) issueTokens(d *Driver) (*AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(d.ID, d.Status == StatusBlocked)
	if err != nil {
		return nil, err
	}

	refreshToken, _, expiresAt, err := s.jwt.GenerateRefreshToken(d.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Driver:       DriverResponseFromEntity(d, nil),
	}, nil
}

// GetProfile returns the driver's own account with documents
func (s *Service) GetProfile(ctx context.Context, driverID uuid.UUID) (*DriverResponse, error) {
	d, err := s.repo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	docs, err := s.documentResponses(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return DriverResponseFromEntity(d, docs), nil
}

// UpdateProfile applies partial profile changes
func (s *Service) UpdateProfile(ctx context.Context, driverID uuid.UUID, req *UpdateProfileRequest) (*DriverResponse, error) {
	d, err := s.repo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	if req.Phone != nil && *req.Phone != d.Phone {
		taken, err := s.repo.GetByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, ErrPhoneTaken
		}
		d.Phone = *req.Phone
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.DeviceToken != nil {
		d.DeviceToken.String = *req.DeviceToken
		d.DeviceToken.Valid = *req.DeviceToken != ""
	}

	if err := s.repo.UpdateProfile(ctx, d); err != nil {
		return nil, err
	}

	return DriverResponseFromEntity(d, nil), nil
}

// UploadDocument stores a verification artifact and queues it for
// review. Re-uploading replaces the previous file of the same type.
func (s *Service) UploadDocument(ctx context.Context, driverID uuid.UUID, docType DocumentType, file io.Reader, size int64, contentType string) (*DocumentResponse, error) {
	if docType != DocumentLicense && docType != DocumentEmiratesID {
		return nil, ErrInvalidDocType
	}
	if size > MaxDocumentSize {
		return nil, ErrFileTooLarge
	}

	ext, ok := allowedDocumentTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedFile
	}

	d, err := s.repo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	key := fmt.Sprintf("documents/%s/%s/%s%s", driverID, docType, uuid.New(), ext)
	if err := s.storage.Save(ctx, key, file, contentType); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	old, err := s.repo.GetDocument(ctx, driverID, docType)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:       uuid.New(),
		DriverID: driverID,
		Type:     docType,
		FileKey:  key,
		Status:   DocumentPending,
	}
	if err := s.repo.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}

	if old != nil && old.FileKey != key {
		if err := s.storage.Delete(ctx, old.FileKey); err != nil {
			log.Warn().Err(err).Str("key", old.FileKey).Msg("Failed to delete replaced document")
		}
	}

	return DocumentResponseFromEntity(doc, s.storage.GetURL(key)), nil
}

// ListDrivers returns drivers for the admin panel
func (s *Service) ListDrivers(ctx context.Context, filter ListFilter) ([]*DriverResponse, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	drivers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		result = append(result, DriverResponseFromEntity(d, nil))
	}

	return result, total, nil
}

// GetDriver returns a driver with documents for the admin panel
func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (*DriverResponse, error) {
	return s.GetProfile(ctx, id)
}

// UpdateStatus changes the driver account status from the admin panel
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest) error {
	status := Status(req.Status)
	switch status {
	case StatusPending, StatusActive, StatusBlocked, StatusInactive:
	default:
		return ErrInvalidStatus
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrDriverNotFound
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	if status == StatusBlocked && d.DeviceToken.Valid {
		s.push.SendAsync(&push.PushMessage{
			Token: d.DeviceToken.String,
			Title: "Account blocked",
			Body:  "Your account has been blocked. Contact support for details.",
		})
	}

	return nil
}

// ReviewDocument applies an admin verdict to a pending document. The
// third rejection blocks the driver account.
func (s *Service) ReviewDocument(ctx context.Context, adminID, driverID uuid.UUID, docType DocumentType, req *ReviewDocumentRequest) (*DocumentResponse, error) {
	if docType != DocumentLicense && docType != DocumentEmiratesID {
		return nil, ErrInvalidDocType
	}
	if !req.Approve && strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	d, err := s.repo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDriverNotFound
	}

	doc, err := s.repo.GetDocument(ctx, driverID, docType)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if doc.Status != DocumentPending {
		return nil, ErrDocumentNotPending
	}

	if req.Approve {
		doc.Status = DocumentVerified
	} else {
		doc.Status = DocumentRejected
		doc.RejectReason.String = req.Reason
		doc.RejectReason.Valid = true
	}
	doc.VerifiedBy = uuid.NullUUID{UUID: adminID, Valid: true}

	rejectionCount, err := s.repo.ReviewDocument(ctx, doc, !req.Approve)
	if err != nil {
		return nil, err
	}

	if req.Approve {
		s.activateIfVerified(ctx, d)
		if d.DeviceToken.Valid {
			s.push.SendAsync(&push.PushMessage{
				Token: d.DeviceToken.String,
				Title: "Document approved",
				Body:  fmt.Sprintf("Your %s has been verified.", docLabel(docType)),
			})
		}
	} else {
		title := "Document rejected"
		body := fmt.Sprintf("Your %s was rejected: %s", docLabel(docType), req.Reason)
		if rejectionCount >= MaxDocumentRejections {
			title = "Account blocked"
			body = "Your account has been blocked after repeated document rejections."
		}
		if d.DeviceToken.Valid {
			s.push.SendAsync(&push.PushMessage{
				Token: d.DeviceToken.String,
				Title: title,
				Body:  body,
			})
		}
	}

	return DocumentResponseFromEntity(doc, s.storage.GetURL(doc.FileKey)), nil
}

// activateIfVerified flips a pending driver to active once both
// required documents are verified
func (s *Service) activateIfVerified(ctx context.Context, d *Driver) {
	if d.Status != StatusPending {
		return
	}

	docs, err := s.repo.GetDocuments(ctx, d.ID)
	if err != nil {
		log.Warn().Err(err).Str("driver_id", d.ID.String()).Msg("Failed to check document completeness")
		return
	}

	verified := map[DocumentType]bool{}
	for _, doc := range docs {
		if doc.Status == DocumentVerified {
			verified[doc.Type] = true
		}
	}
	if !verified[DocumentLicense] || !verified[DocumentEmiratesID] {
		return
	}

	if err := s.repo.UpdateStatus(ctx, d.ID, StatusActive); err != nil {
		log.Error().Err(err).Str("driver_id", d.ID.String()).Msg("Failed to activate verified driver")
		return
	}

	if d.DeviceToken.Valid {
		s.push.SendAsync(&push.PushMessage{
			Token: d.DeviceToken.String,
			Title: "Account activated",
			Body:  "Your documents are verified. You can start accepting rides.",
		})
	}
}

func (s *Service) documentResponses(ctx context.Context, driverID uuid.UUID) ([]*DocumentResponse, error) {
	docs, err := s.repo.GetDocuments(ctx, driverID)
	if err != nil {
		return nil, err
	}

	result := make([]*DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		result = append(result, DocumentResponseFromEntity(doc, s.storage.GetURL(doc.FileKey)))
	}

	return result, nil
}

func docLabel(t DocumentType) string {
	switch t {
	case DocumentLicense:
		return "driving license"
	case DocumentEmiratesID:
		return "Emirates ID"
	}
	return string(t)
}

// DetectContentType resolves an upload's content type from the header
// value, falling back to the file extension
func DetectContentType(headerValue, filename string) string {
	if headerValue != "" && headerValue != "application/octet-stream" {
		return headerValue
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	}
	return headerValue
}
