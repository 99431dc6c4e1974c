package dto

import (
	"time"

	"github.com/bioproximity/support-service/internal/domain"
)

// EventResponse is one audit trail entry.
type EventResponse struct {
	ID             string            `json:"id"`
	EventType      domain.EventType  `json:"event_type"`
	Title          string            `json:"title"`
	OrderID        *string           `json:"order_id"`
	OrderedAssayID *string           `json:"ordered_assay_id"`
	UserID         string            `json:"user_id"`
	Meta           map[string]string `json:"meta"`
	CreatedAt      time.Time         `json:"created_at"`
}

// NewEventResponse maps the domain model.
func NewEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:             e.ID,
		EventType:      e.EventType,
		Title:          e.Title,
		OrderID:        e.OrderID,
		OrderedAssayID: e.OrderedAssayID,
		UserID:         e.UserID,
		Meta:           e.Meta,
		CreatedAt:      e.CreatedAt,
	}
}
