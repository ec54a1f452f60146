package ticket

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines ticket data access interface
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error)
	List(ctx context.Context, filter ListFilter) ([]*Ticket, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	CreateReply(ctx context.Context, reply *Reply) error
	ListReplies(ctx context.Context, ticketID uuid.UUID) ([]*Reply, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new ticket repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	query := `
		INSERT INTO tickets (id, driver_id, subject, message, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, t.ID, t.DriverID, t.Subject, t.Message, t.Status, t.Priority)
	if err != nil {
		return fmt.Errorf("ticket repository create: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	query := `
		SELECT t.id, t.driver_id, t.subject, t.message, t.status, t.priority,
		       t.created_at, t.updated_at, t.deleted_at, d.name AS driver_name
		FROM tickets t
		JOIN drivers d ON d.id = t.driver_id
		WHERE t.id = $1 AND t.deleted_at IS NULL
	`
	var t Ticket
	err := r.db.GetContext(ctx, &t, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &t, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]*Ticket, int, error) {
	where := "WHERE t.deleted_at IS NULL"
	args := []interface{}{}
	argn := 1

	if filter.DriverID != nil {
		where += fmt.Sprintf(" AND t.driver_id = $%d", argn)
		args = append(args, *filter.DriverID)
		argn++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND t.status = $%d", argn)
		args = append(args, *filter.Status)
		argn++
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM tickets t "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ticket repository list count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.driver_id, t.subject, t.message, t.status, t.priority,
		       t.created_at, t.updated_at, t.deleted_at, d.name AS driver_name
		FROM tickets t
		JOIN drivers d ON d.id = t.driver_id
		%s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	tickets := []*Ticket{}
	err = r.db.SelectContext(ctx, &tickets, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ticket repository list: %w", err)
	}

	return tickets, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `
		UPDATE tickets SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	_, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("ticket repository update status: %w", err)
	}

	return nil
}

func (r *repository) CreateReply(ctx context.Context, reply *Reply) error {
	query := `
		INSERT INTO ticket_replies (id, ticket_id, author_type, author_id, message)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, reply.ID, reply.TicketID, reply.AuthorType, reply.AuthorID, reply.Message)
	if err != nil {
		return fmt.Errorf("ticket repository create reply: %w", err)
	}

	return nil
}

func (r *repository) ListReplies(ctx context.Context, ticketID uuid.UUID) ([]*Reply, error) {
	query := `
		SELECT id, ticket_id, author_type, author_id, message, created_at
		FROM ticket_replies
		WHERE ticket_id = $1
		ORDER BY created_at
	`
	replies := []*Reply{}
	err := r.db.SelectContext(ctx, &replies, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("ticket repository list replies: %w", err)
	}

	return replies, nil
}
