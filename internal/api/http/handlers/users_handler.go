package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/pkg/util"
)

// UsersHandler manages profile settings for customers.
type UsersHandler struct {
	users repository.UserRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users repository.UserRepository) *UsersHandler {
	return &UsersHandler{users: users}
}

type notificationPreferenceRequest struct {
	Enabled bool `json:"enabled"`
}

// UpdateNotificationPreference PATCH /profile/notifications. Controls
// whether the user is emailed about admin replies on their tickets.
func (h *UsersHandler) UpdateNotificationPreference(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}
	var req notificationPreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	if err := h.users.SetEmailNotifications(c.UserContext(), principal.User.ID, req.Enabled); err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"email_notifications": req.Enabled}})
}
