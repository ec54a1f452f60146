package ticket

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ridehub/ridehub-api/internal/domain/driver"
	"github.com/ridehub/ridehub-api/internal/pkg/push"
)

// DriverDirectory looks up drivers for push notifications
type DriverDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
}

// Service handles support ticket business logic
type Service struct {
	repo    Repository
	drivers DriverDirectory
	push    *push.FCMClient
}

// NewService creates new ticket service
func NewService(repo Repository, drivers DriverDirectory, fcm *push.FCMClient) *Service {
	return &Service{
		repo:    repo,
		drivers: drivers,
		push:    fcm,
	}
}

// Create opens a new ticket for a driver
func (s *Service) Create(ctx context.Context, driverID uuid.UUID, req *CreateRequest) (*Ticket, error) {
	priority := PriorityNormal
	if req.Priority != "" {
		priority = Priority(req.Priority)
	}

	t := &Ticket{
		ID:       uuid.New(),
		DriverID: driverID,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   StatusOpen,
		Priority: priority,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// ListOwn returns a driver's own tickets
func (s *Service) ListOwn(ctx context.Context, driverID uuid.UUID, limit, offset int) ([]*Ticket, int, error) {
	return s.repo.List(ctx, ListFilter{
		DriverID: &driverID,
		Limit:    limit,
		Offset:   offset,
	})
}

// GetOwn returns a driver's ticket with its reply thread
func (s *Service) GetOwn(ctx context.Context, driverID, ticketID uuid.UUID) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}
	if t.DriverID != driverID {
		return nil, ErrNotTicketOwner
	}

	replies, err := s.repo.ListReplies(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	t.Replies = replies

	return t, nil
}

// ReplyAsDriver appends a driver reply to their own open ticket
func (s *Service) ReplyAsDriver(ctx context.Context, driverID, ticketID uuid.UUID, req *ReplyRequest) (*Reply, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}
	if t.DriverID != driverID {
		return nil, ErrNotTicketOwner
	}

	return s.appendReply(ctx, t, AuthorDriver, driverID, req.Message)
}

// List returns tickets for the admin panel
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Ticket, int, error) {
	return s.repo.List(ctx, filter)
}

// Get returns a ticket with its reply thread
func (s *Service) Get(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}

	replies, err := s.repo.ListReplies(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	t.Replies = replies

	return t, nil
}

// ReplyAsAdmin appends an admin reply and notifies the driver.
// Replying to an open ticket moves it to in_progress.
func (s *Service) ReplyAsAdmin(ctx context.Context, adminID, ticketID uuid.UUID, req *ReplyRequest) (*Reply, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}

	reply, err := s.appendReply(ctx, t, AuthorAdmin, adminID, req.Message)
	if err != nil {
		return nil, err
	}

	if t.Status == StatusOpen {
		if err := s.repo.UpdateStatus(ctx, t.ID, StatusInProgress); err != nil {
			log.Warn().Err(err).Str("ticket_id", t.ID.String()).Msg("Failed to move ticket to in_progress")
		}
	}

	s.notify(ctx, t.DriverID, "Support replied", fmt.Sprintf("New reply on ticket: %s", t.Subject), t.ID)

	return reply, nil
}

// UpdateStatus changes a ticket status and notifies the driver
func (s *Service) UpdateStatus(ctx context.Context, ticketID uuid.UUID, req *UpdateStatusRequest) (*Ticket, error) {
	t, err := s.repo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTicketNotFound
	}

	status := Status(req.Status)
	if status == t.Status {
		return t, nil
	}

	if err := s.repo.UpdateStatus(ctx, ticketID, status); err != nil {
		return nil, err
	}
	t.Status = status

	switch status {
	case StatusResolved:
		s.notify(ctx, t.DriverID, "Ticket resolved", fmt.Sprintf("Your ticket has been resolved: %s", t.Subject), t.ID)
	case StatusClosed:
		s.notify(ctx, t.DriverID, "Ticket closed", fmt.Sprintf("Your ticket has been closed: %s", t.Subject), t.ID)
	}

	return t, nil
}

func (s *Service) appendReply(ctx context.Context, t *Ticket, author AuthorType, authorID uuid.UUID, message string) (*Reply, error) {
	if t.Status == StatusClosed {
		return nil, ErrTicketClosed
	}

	reply := &Reply{
		ID:         uuid.New(),
		TicketID:   t.ID,
		AuthorType: author,
		AuthorID:   authorID,
		Message:    message,
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	return reply, nil
}

// notify sends a best-effort push to the ticket's driver
func (s *Service) notify(ctx context.Context, driverID uuid.UUID, title, body string, ticketID uuid.UUID) {
	d, err := s.drivers.GetByID(ctx, driverID)
	if err != nil || d == nil || !d.DeviceToken.Valid {
		if err != nil {
			log.Warn().Err(err).Str("driver_id", driverID.String()).Msg("Failed to load driver for ticket push")
		}
		return
	}

	s.push.SendAsync(&push.PushMessage{
		Token: d.DeviceToken.String,
		Title: title,
		Body:  body,
		Data:  map[string]string{"ticket_id": ticketID.String()},
	})
}
