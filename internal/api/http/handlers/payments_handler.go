package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/bioproximity/support-service/internal/api/dto"
	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/payment"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/pkg/util"
)

// PaymentsHandler opens hosted checkout sessions.
type PaymentsHandler struct {
	payments *payment.Service
	orders   repository.OrderRepository
	plans    repository.PlanRepository
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *payment.Service, orders repository.OrderRepository, plans repository.PlanRepository) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, orders: orders, plans: plans}
}

// CreateOrderCheckout POST /orders/:id/checkout-session.
func (h *PaymentsHandler) CreateOrderCheckout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}
	var req dto.OrderCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	order, err := h.orders.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("order", nil)
		}
		return util.MapError(err)
	}
	if order.UserID != principal.User.ID {
		return util.NewNotFound("order", nil)
	}

	sess, err := h.payments.CreateOrderSession(c.UserContext(), order, req.Shipping, c.IP())
	if err != nil {
		return util.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CheckoutSessionResponse{SessionID: sess.ID, URL: sess.URL},
	})
}

// CreatePlanCheckout POST /plans/:code/checkout-session.
func (h *PaymentsHandler) CreatePlanCheckout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}

	plan, err := h.plans.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("plan", nil)
		}
		return util.MapError(err)
	}

	sess, err := h.payments.CreatePlanSession(c.UserContext(), principal.User, plan, c.IP())
	if err != nil {
		return util.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.CheckoutSessionResponse{SessionID: sess.ID, URL: sess.URL},
	})
}
