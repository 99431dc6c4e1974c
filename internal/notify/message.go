package notify

import "time"

// Kind enumerates outbound notification kinds.
type Kind string

const (
	KindTicketCreated Kind = "ticket_created"
	KindCommentAdded  Kind = "comment_added"
	KindErrorReport   Kind = "error_report"
)

// Message is a notification descriptor queued for out-of-band delivery.
// Exactly one of AdminID / UserID is set for mail kinds; error reports
// carry neither.
type Message struct {
	Kind       Kind              `json:"kind"`
	TicketID   string            `json:"ticket_id,omitempty"`
	CommentID  string            `json:"comment_id,omitempty"`
	AdminID    *string           `json:"admin_id,omitempty"`
	UserID     *string           `json:"user_id,omitempty"`
	Subject    string            `json:"subject,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	EnqueuedAt time.Time         `json:"enqueued_at"`
}
