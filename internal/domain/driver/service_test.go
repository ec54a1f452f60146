package driver

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/pkg/jwt"
	"github.com/ridehub/ridehub-api/internal/pkg/password"
)

type fakeRepo struct {
	drivers map[uuid.UUID]*Driver
	docs    map[uuid.UUID]map[DocumentType]*Document
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		drivers: make(map[uuid.UUID]*Driver),
		docs:    make(map[uuid.UUID]map[DocumentType]*Document),
	}
}

func (f *fakeRepo) Create(_ context.Context, d *Driver) error {
	cp := *d
	f.drivers[d.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Driver, error) {
	d, ok := f.drivers[id]
	if !ok || d.DeletedAt.Valid {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*Driver, error) {
	for _, d := range f.drivers {
		if d.Email == email && !d.DeletedAt.Valid {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetByPhone(_ context.Context, phone string) (*Driver, error) {
	for _, d := range f.drivers {
		if d.Phone == phone && !d.DeletedAt.Valid {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, _ ListFilter) ([]*Driver, int, error) {
	out := []*Driver{}
	for _, d := range f.drivers {
		if !d.DeletedAt.Valid {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, d *Driver) error {
	if stored, ok := f.drivers[d.ID]; ok {
		stored.Name = d.Name
		stored.Phone = d.Phone
		stored.DeviceToken = d.DeviceToken
	}
	return nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	if d, ok := f.drivers[id]; ok {
		d.Status = status
	}
	return nil
}

func (f *fakeRepo) UpdateDeviceToken(_ context.Context, id uuid.UUID, token string) error {
	if d, ok := f.drivers[id]; ok {
		d.DeviceToken.String = token
		d.DeviceToken.Valid = token != ""
	}
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if d, ok := f.drivers[id]; ok {
		d.DeletedAt.Time = time.Now()
		d.DeletedAt.Valid = true
	}
	return nil
}

func (f *fakeRepo) UpsertDocument(_ context.Context, doc *Document) error {
	if f.docs[doc.DriverID] == nil {
		f.docs[doc.DriverID] = make(map[DocumentType]*Document)
	}
	cp := *doc
	f.docs[doc.DriverID][doc.Type] = &cp
	return nil
}

func (f *fakeRepo) GetDocument(_ context.Context, driverID uuid.UUID, docType DocumentType) (*Document, error) {
	doc, ok := f.docs[driverID][docType]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeRepo) GetDocuments(_ context.Context, driverID uuid.UUID) ([]*Document, error) {
	out := []*Document{}
	for _, doc := range f.docs[driverID] {
		cp := *doc
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ReviewDocument(_ context.Context, doc *Document, rejected bool) (int, error) {
	stored := f.docs[doc.DriverID][doc.Type]
	stored.Status = doc.Status
	stored.RejectReason = doc.RejectReason
	stored.VerifiedBy = doc.VerifiedBy

	d := f.drivers[doc.DriverID]
	if rejected {
		d.RejectionCount++
		if d.RejectionCount >= MaxDocumentRejections {
			d.Status = StatusBlocked
		}
	}
	return d.RejectionCount, nil
}

func (f *fakeRepo) ListBelowBalance(_ context.Context, threshold int64) ([]*Driver, error) {
	out := []*Driver{}
	for _, d := range f.drivers {
		if !d.DeletedAt.Valid && d.Status == StatusActive && d.WalletBalance < threshold {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeStorage struct {
	saved   map[string]string
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{saved: make(map[string]string)}
}

func (s *fakeStorage) Save(_ context.Context, key string, reader io.Reader, contentType string) error {
	b, _ := io.ReadAll(reader)
	s.saved[key] = string(b)
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.saved, key)
	return nil
}

func (s *fakeStorage) GetURL(key string) string {
	return "https://files.test/" + key
}

func newTestService(repo *fakeRepo, store *fakeStorage) *Service {
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	return NewService(repo, jwtService, store, nil)
}

func (f *fakeRepo) addDriver(t *testing.T, status Status) *Driver {
	t.Helper()
	hash, err := password.Hash("driver-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	d := &Driver{
		ID:           uuid.New(),
		Name:         "Test Driver",
		Email:        uuid.New().String() + "@example.com",
		Phone:        "+9715" + uuid.New().String()[:8],
		PasswordHash: hash,
		Status:       status,
		CreatedAt:    time.Now(),
	}
	f.drivers[d.ID] = d
	return d
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, newFakeStorage())
	ctx := context.Background()

	req := &RegisterRequest{
		Name:     "New Driver",
		Email:    "new@example.com",
		Phone:    "+971501234567",
		Password: "driver-password",
	}
	result, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if result.Driver.Status != string(StatusPending) {
		t.Fatalf("status = %q, want pending", result.Driver.Status)
	}

	_, err = svc.Register(ctx, req)
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	req2 := &RegisterRequest{Name: "Other", Email: "other@example.com", Phone: req.Phone, Password: "driver-password"}
	_, err = svc.Register(ctx, req2)
	if err != ErrPhoneTaken {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
}

func TestLoginMarksBlockedInToken(t *testing.T) {
	repo := newFakeRepo()
	d := repo.addDriver(t, StatusBlocked)
	svc := newTestService(repo, newFakeStorage())

	result, err := svc.Login(context.Background(), &LoginRequest{Email: d.Email, Password: "driver-password"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	claims, err := jwtService.ValidateAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !claims.IsBlocked {
		t.Fatal("blocked driver token must carry is_blocked")
	}
}

func TestUploadDocument(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	d := repo.addDriver(t, StatusPending)
	svc := newTestService(repo, store)
	ctx := context.Background()

	result, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("file-bytes"), 9, "image/jpeg")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Status != string(DocumentPending) {
		t.Fatalf("status = %q, want pending", result.Status)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved files = %d, want 1", len(store.saved))
	}

	// Re-upload replaces the stored file
	_, err = svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("new-bytes"), 9, "image/png")
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved files after replace = %d, want 1", len(store.saved))
	}
	if len(store.deleted) != 1 {
		t.Fatalf("deleted files = %d, want 1", len(store.deleted))
	}

	if _, err := svc.UploadDocument(ctx, d.ID, DocumentType("passport"), strings.NewReader("x"), 1, "image/jpeg"); err != ErrInvalidDocType {
		t.Fatalf("expected ErrInvalidDocType, got %v", err)
	}
	if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("x"), MaxDocumentSize+1, "image/jpeg"); err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("x"), 1, "text/html"); err != ErrUnsupportedFile {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestThirdRejectionBlocksDriver(t *testing.T) {
	repo := newFakeRepo()
	store := newFakeStorage()
	d := repo.addDriver(t, StatusPending)
	adminID := uuid.New()
	svc := newTestService(repo, store)
	ctx := context.Background()

	reject := &ReviewDocumentRequest{Approve: false, Reason: "unreadable scan"}

	for i := 1; i <= MaxDocumentRejections; i++ {
		if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("scan"), 4, "image/jpeg"); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
		result, err := svc.ReviewDocument(ctx, adminID, d.ID, DocumentLicense, reject)
		if err != nil {
			t.Fatalf("reject %d: %v", i, err)
		}
		if result.Status != string(DocumentRejected) {
			t.Fatalf("reject %d: status = %q", i, result.Status)
		}
		if repo.drivers[d.ID].RejectionCount != i {
			t.Fatalf("reject %d: rejection_count = %d", i, repo.drivers[d.ID].RejectionCount)
		}
	}

	if repo.drivers[d.ID].Status != StatusBlocked {
		t.Fatalf("driver status = %q, want blocked after %d rejections", repo.drivers[d.ID].Status, MaxDocumentRejections)
	}
}

func TestRejectionRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	d := repo.addDriver(t, StatusPending)
	svc := newTestService(repo, newFakeStorage())
	ctx := context.Background()

	if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("scan"), 4, "image/jpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err := svc.ReviewDocument(ctx, uuid.New(), d.ID, DocumentLicense, &ReviewDocumentRequest{Approve: false, Reason: "  "})
	if err != ErrReasonRequired {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestActivationAfterBothDocumentsVerified(t *testing.T) {
	repo := newFakeRepo()
	d := repo.addDriver(t, StatusPending)
	adminID := uuid.New()
	svc := newTestService(repo, newFakeStorage())
	ctx := context.Background()

	approve := &ReviewDocumentRequest{Approve: true}

	if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("scan"), 4, "image/jpeg"); err != nil {
		t.Fatalf("upload license: %v", err)
	}
	if _, err := svc.ReviewDocument(ctx, adminID, d.ID, DocumentLicense, approve); err != nil {
		t.Fatalf("approve license: %v", err)
	}
	if repo.drivers[d.ID].Status != StatusPending {
		t.Fatal("driver must stay pending with one verified document")
	}

	if _, err := svc.UploadDocument(ctx, d.ID, DocumentEmiratesID, strings.NewReader("scan"), 4, "image/jpeg"); err != nil {
		t.Fatalf("upload emirates id: %v", err)
	}
	if _, err := svc.ReviewDocument(ctx, adminID, d.ID, DocumentEmiratesID, approve); err != nil {
		t.Fatalf("approve emirates id: %v", err)
	}
	if repo.drivers[d.ID].Status != StatusActive {
		t.Fatalf("driver status = %q, want active", repo.drivers[d.ID].Status)
	}
}

func TestReviewedDocumentCannotBeReviewedAgain(t *testing.T) {
	repo := newFakeRepo()
	d := repo.addDriver(t, StatusPending)
	svc := newTestService(repo, newFakeStorage())
	ctx := context.Background()

	if _, err := svc.UploadDocument(ctx, d.ID, DocumentLicense, strings.NewReader("scan"), 4, "image/jpeg"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.ReviewDocument(ctx, uuid.New(), d.ID, DocumentLicense, &ReviewDocumentRequest{Approve: true}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := svc.ReviewDocument(ctx, uuid.New(), d.ID, DocumentLicense, &ReviewDocumentRequest{Approve: true})
	if err != ErrDocumentNotPending {
		t.Fatalf("expected ErrDocumentNotPending, got %v", err)
	}
}
