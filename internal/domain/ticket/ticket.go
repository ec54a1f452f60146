package ticket

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status of a support ticket
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
)

// Priority of a support ticket
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Ticket is a driver support request
type Ticket struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	DriverID  uuid.UUID    `db:"driver_id" json:"driver_id"`
	Subject   string       `db:"subject" json:"subject"`
	Message   string       `db:"message" json:"message"`
	Status    Status       `db:"status" json:"status"`
	Priority  Priority     `db:"priority" json:"priority"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at" json:"-"`

	DriverName string   `db:"driver_name" json:"driver_name,omitempty"`
	Replies    []*Reply `db:"-" json:"replies,omitempty"`
}

// AuthorType of a ticket reply
type AuthorType string

const (
	AuthorAdmin  AuthorType = "admin"
	AuthorDriver AuthorType = "driver"
)

// Reply is a message on a ticket thread
type Reply struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	TicketID   uuid.UUID  `db:"ticket_id" json:"ticket_id"`
	AuthorType AuthorType `db:"author_type" json:"author_type"`
	AuthorID   uuid.UUID  `db:"author_id" json:"author_id"`
	Message    string     `db:"message" json:"message"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketClosed   = errors.New("ticket is closed")
	ErrInvalidStatus  = errors.New("unknown ticket status")
	ErrNotTicketOwner = errors.New("ticket belongs to another driver")
)

// CreateRequest for POST /v1/tickets
type CreateRequest struct {
	Subject  string `json:"subject" validate:"required,min=3,max=200"`
	Message  string `json:"message" validate:"required,min=10,max=2000"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
}

// ReplyRequest for POST /admin/tickets/{id}/reply and /v1/tickets/{id}/reply
type ReplyRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// UpdateStatusRequest for PATCH /admin/tickets/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress resolved closed"`
}

// ListFilter for ticket listing
type ListFilter struct {
	DriverID *uuid.UUID
	Status   *Status
	Limit    int
	Offset   int
}
