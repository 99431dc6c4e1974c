package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/bioproximity/support-service/internal/api/dto"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/service"
)

// AuthHandler exposes login endpoints for users and admins.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// RegisterUser handles POST /auth/users/register.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, last_name, email, password required")
	}

	user, token, exp, err := h.auth.RegisterUser(c.UserContext(), req.FirstName, req.LastName, req.Email, req.Password, req.Phone)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.FullName(),
				"email": user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RegisterAdmin handles POST /api/v1/admins. Superadmins only.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	var req dto.RegisterAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "first_name, email, password, role required")
	}

	admin, err := h.auth.RegisterAdmin(c.UserContext(), req.FirstName, req.LastName, req.Email, req.Password, domain.AdminRole(req.Role))
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.FullName(),
				"email": admin.Email,
				"role":  admin.Role,
			},
		},
	})
}

// LoginUser handles POST /auth/users/login.
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, exp, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":    user.ID,
				"name":  user.FullName(),
				"email": user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// LoginAdmin handles POST /auth/admins/login.
func (h *AuthHandler) LoginAdmin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"admin": fiber.Map{
				"id":    admin.ID,
				"name":  admin.FullName(),
				"email": admin.Email,
				"role":  admin.Role,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}
