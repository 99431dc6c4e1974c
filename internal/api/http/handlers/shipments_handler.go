package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/bioproximity/support-service/internal/api/dto"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/internal/shipping"
	"github.com/bioproximity/support-service/pkg/util"
)

// ShipmentsHandler drives carrier operations for orders.
type ShipmentsHandler struct {
	shipping *shipping.Service
	orders   repository.OrderRepository
}

// NewShipmentsHandler constructs handler.
func NewShipmentsHandler(shippingService *shipping.Service, orders repository.OrderRepository) *ShipmentsHandler {
	return &ShipmentsHandler{shipping: shippingService, orders: orders}
}

// StartShipment POST /orders/:id/shipment. Admin only; the route guard
// enforces the role.
func (h *ShipmentsHandler) StartShipment(c *fiber.Ctx) error {
	var req dto.StartShipmentRequest
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

	result := h.shipping.StartShipment(c.UserContext(), order, req.Destination.CarrierAddress())
	if result == nil {
		return c.Status(http.StatusBadGateway).JSON(dto.ShipmentResponse{Success: false})
	}

	resp := dto.ShipmentResponse{Success: true}
	for _, leg := range []*domain.ShipmentLeg{result.LegOne, result.LegTwo} {
		if leg == nil {
			continue
		}
		resp.Legs = append(resp.Legs, dto.ShipmentLegResponse{
			Leg:            leg.Leg,
			TransactionID:  leg.TransactionID,
			TrackingNumber: leg.TrackingNumber,
			TrackingURL:    leg.TrackingURL,
		})
	}
	return c.JSON(resp)
}

// EstimateShipping POST /orders/:id/shipping-estimate.
func (h *ShipmentsHandler) EstimateShipping(c *fiber.Ctx) error {
	var req dto.StartShipmentRequest
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

	amount := h.shipping.EstimateShippingPrice(c.UserContext(), order, req.Destination.CarrierAddress())
	if amount == nil {
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"success": false})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"amount": *amount}})
}

// ValidateAddress POST /addresses/validate.
func (h *ShipmentsHandler) ValidateAddress(c *fiber.Ctx) error {
	var req dto.AddressRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	msg := h.shipping.ValidateAddress(c.UserContext(), req.CarrierAddress())
	return c.JSON(dto.AddressValidationResponse{Valid: msg == "", Message: msg})
}

// GetLabel GET /shipments/:transaction_id/label.
func (h *ShipmentsHandler) GetLabel(c *fiber.Ctx) error {
	url := h.shipping.FetchLabelURL(c.UserContext(), c.Params("transaction_id"))
	if url == "" {
		return util.NewNotFound("label", nil)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"label_url": url}})
}
