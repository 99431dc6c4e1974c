package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bioproximity/support-service/internal/api/dto"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/pkg/util"
)

// EventsHandler exposes the audit trail to back-office admins.
type EventsHandler struct {
	events repository.EventRepository
}

// NewEventsHandler constructs handler.
func NewEventsHandler(events repository.EventRepository) *EventsHandler {
	return &EventsHandler{events: events}
}

// ListByType GET /events/:type.
func (h *EventsHandler) ListByType(c *fiber.Ctx) error {
	eventType := domain.EventType(c.Params("type"))
	if eventType != domain.EventTicketCreated && eventType != domain.EventCommentCreated {
		return util.NewValidationError("unknown event type", nil)
	}

	events, err := h.events.ListByType(c.UserContext(), eventType, c.QueryInt("limit", 50))
	if err != nil {
		return util.MapError(err)
	}
	items := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		items = append(items, dto.NewEventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
