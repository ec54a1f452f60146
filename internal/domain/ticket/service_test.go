package ticket

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
)

type fakeRepo struct {
	tickets map[uuid.UUID]*Ticket
	replies map[uuid.UUID][]*Reply
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tickets: make(map[uuid.UUID]*Ticket),
		replies: make(map[uuid.UUID][]*Reply),
	}
}

func (f *fakeRepo) Create(_ context.Context, t *Ticket) error {
	cp := *t
	f.tickets[t.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]*Ticket, int, error) {
	out := []*Ticket{}
	for _, t := range f.tickets {
		if filter.DriverID != nil && t.DriverID != *filter.DriverID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	if t, ok := f.tickets[id]; ok {
		t.Status = status
	}
	return nil
}

func (f *fakeRepo) CreateReply(_ context.Context, reply *Reply) error {
	cp := *reply
	f.replies[reply.TicketID] = append(f.replies[reply.TicketID], &cp)
	return nil
}

func (f *fakeRepo) ListReplies(_ context.Context, ticketID uuid.UUID) ([]*Reply, error) {
	return f.replies[ticketID], nil
}

type fakeDirectory struct{}

func (f *fakeDirectory) GetByID(_ context.Context, _ uuid.UUID) (*driver.Driver, error) {
	return nil, nil
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, &fakeDirectory{}, nil)
}

func TestCreateDefaults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	driverID := uuid.New()

	created, err := svc.Create(context.Background(), driverID, &CreateRequest{
		Subject: "App keeps crashing",
		Message: "The app closes whenever I open the wallet screen.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Status != StatusOpen {
		t.Errorf("status = %s, want %s", created.Status, StatusOpen)
	}
	if created.Priority != PriorityNormal {
		t.Errorf("priority = %s, want %s", created.Priority, PriorityNormal)
	}
	if created.DriverID != driverID {
		t.Errorf("driver_id = %s, want %s", created.DriverID, driverID)
	}
}

func TestGetOwnRejectsOtherDriver(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &CreateRequest{
		Subject: "Payment not credited",
		Message: "I topped up my wallet but the balance did not change.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.GetOwn(context.Background(), uuid.New(), created.ID); err != ErrNotTicketOwner {
		t.Errorf("GetOwn() as stranger error = %v, want ErrNotTicketOwner", err)
	}
	if _, err := svc.GetOwn(context.Background(), owner, created.ID); err != nil {
		t.Errorf("GetOwn() as owner error = %v", err)
	}
	if _, err := svc.GetOwn(context.Background(), owner, uuid.New()); err != ErrTicketNotFound {
		t.Errorf("GetOwn() missing error = %v, want ErrTicketNotFound", err)
	}
}

func TestReplyOnClosedTicket(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), owner, &CreateRequest{
		Subject: "Document rejected",
		Message: "My license was rejected but the reason is unclear.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), created.ID, &UpdateStatusRequest{Status: "closed"}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	if _, err := svc.ReplyAsDriver(context.Background(), owner, created.ID, &ReplyRequest{Message: "Any update?"}); err != ErrTicketClosed {
		t.Errorf("driver reply error = %v, want ErrTicketClosed", err)
	}
	if _, err := svc.ReplyAsAdmin(context.Background(), uuid.New(), created.ID, &ReplyRequest{Message: "Checking"}); err != ErrTicketClosed {
		t.Errorf("admin reply error = %v, want ErrTicketClosed", err)
	}
}

func TestAdminReplyMovesOpenToInProgress(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	owner := uuid.New()
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), owner, &CreateRequest{
		Subject: "Vehicle assignment",
		Message: "The vehicle assigned to me does not match my profile.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	reply, err := svc.ReplyAsAdmin(context.Background(), adminID, created.ID, &ReplyRequest{Message: "We are looking into it."})
	if err != nil {
		t.Fatalf("ReplyAsAdmin() error = %v", err)
	}
	if reply.AuthorType != AuthorAdmin {
		t.Errorf("author_type = %s, want %s", reply.AuthorType, AuthorAdmin)
	}

	stored, _ := repo.GetByID(context.Background(), created.ID)
	if stored.Status != StatusInProgress {
		t.Errorf("status after admin reply = %s, want %s", stored.Status, StatusInProgress)
	}

	// A second reply on an in_progress ticket leaves the status alone.
	if _, err := svc.ReplyAsAdmin(context.Background(), adminID, created.ID, &ReplyRequest{Message: "Fixed."}); err != nil {
		t.Fatalf("ReplyAsAdmin() error = %v", err)
	}
	stored, _ = repo.GetByID(context.Background(), created.ID)
	if stored.Status != StatusInProgress {
		t.Errorf("status after second reply = %s, want %s", stored.Status, StatusInProgress)
	}
}

func TestDriverReplyKeepsThreadOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	owner := uuid.New()
	adminID := uuid.New()

	created, err := svc.Create(context.Background(), owner, &CreateRequest{
		Subject: "Wrong fare recorded",
		Message: "Yesterday's airport ride shows the wrong fare amount.",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.ReplyAsAdmin(context.Background(), adminID, created.ID, &ReplyRequest{Message: "Which ride?"}); err != nil {
		t.Fatalf("ReplyAsAdmin() error = %v", err)
	}
	if _, err := svc.ReplyAsDriver(context.Background(), owner, created.ID, &ReplyRequest{Message: "The 9am pickup."}); err != nil {
		t.Fatalf("ReplyAsDriver() error = %v", err)
	}

	got, err := svc.GetOwn(context.Background(), owner, created.ID)
	if err != nil {
		t.Fatalf("GetOwn() error = %v", err)
	}
	if len(got.Replies) != 2 {
		t.Fatalf("replies = %d, want 2", len(got.Replies))
	}
	if got.Replies[0].AuthorType != AuthorAdmin || got.Replies[1].AuthorType != AuthorDriver {
		t.Errorf("reply order = %s, %s", got.Replies[0].AuthorType, got.Replies[1].AuthorType)
	}
}

func TestListOwnFiltersByDriver(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	owner := uuid.New()
	other := uuid.New()

	for _, d := range []uuid.UUID{owner, owner, other} {
		if _, err := svc.Create(context.Background(), d, &CreateRequest{
			Subject: "General question",
			Message: "How do I update my bank details in the app?",
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tickets, total, err := svc.ListOwn(context.Background(), owner, 20, 0)
	if err != nil {
		t.Fatalf("ListOwn() error = %v", err)
	}
	if total != 2 || len(tickets) != 2 {
		t.Errorf("ListOwn() total = %d len = %d, want 2", total, len(tickets))
	}
}
