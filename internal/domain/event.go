package domain

import "time"

// EventType enumerates audit event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventCommentCreated EventType = "comment_created"
)

// Event is an immutable audit record of a significant action. It is written
// once per workflow run and never mutated.
type Event struct {
	ID             string
	EventType      EventType
	Title          string
	OrderID        *string
	OrderedAssayID *string
	UserID         string
	Meta           map[string]string
	CreatedAt      time.Time
}
