package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bioproximity/support-service/internal/api/http/handlers"
	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Payments       *handlers.PaymentsHandler
	Shipments      *handlers.ShipmentsHandler
	Events         *handlers.EventsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/users/register", cfg.Auth.RegisterUser)
	authGroup.Post("/users/login", cfg.Auth.LoginUser)
	authGroup.Post("/admins/login", cfg.Auth.LoginAdmin)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	api.Patch("/profile/notifications", auth.RequireUser(), cfg.Users.UpdateNotificationPreference)

	api.Post("/admins",
		auth.RequireAdminRole(domain.AdminRoleSuperadmin),
		cfg.Auth.RegisterAdmin)

	tickets := api.Group("/tickets")
	tickets.Get("", auth.RequireUser(), cfg.Tickets.ListTickets)
	tickets.Post("", auth.RequireUser(), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", auth.RequireUser(), cfg.Tickets.GetTicket)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)

	comments := api.Group("/comments")
	comments.Patch("/:id", cfg.Tickets.UpdateComment)
	comments.Delete("/:id", cfg.Tickets.DeleteComment)

	orders := api.Group("/orders")
	orders.Post("/:id/checkout-session", auth.RequireUser(), cfg.Payments.CreateOrderCheckout)
	orders.Post("/:id/shipping-estimate", auth.RequireUser(), cfg.Shipments.EstimateShipping)
	orders.Post("/:id/shipment",
		auth.RequireAdminRole(domain.AdminRoleSuperadmin, domain.AdminRoleSupport),
		cfg.Shipments.StartShipment)

	api.Get("/projects/:id/ticket-availability", auth.RequireUser(), cfg.Tickets.TicketAvailability)

	api.Post("/plans/:code/checkout-session", auth.RequireUser(), cfg.Payments.CreatePlanCheckout)
	api.Post("/addresses/validate", cfg.Shipments.ValidateAddress)
	api.Get("/shipments/:transaction_id/label",
		auth.RequireAdminRole(domain.AdminRoleSuperadmin, domain.AdminRoleSupport),
		cfg.Shipments.GetLabel)

	api.Get("/events/:type",
		auth.RequireAdminRole(domain.AdminRoleSuperadmin),
		cfg.Events.ListByType)
}
