package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/bioproximity/support-service/internal/api/dto"
	"github.com/bioproximity/support-service/internal/auth"
	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/repository"
	"github.com/bioproximity/support-service/internal/workflow"
	"github.com/bioproximity/support-service/pkg/util"
)

// TicketsHandler manages ticket and comment endpoints.
type TicketsHandler struct {
	workflows *workflow.TicketWorkflows
	tickets   repository.TicketRepository
	comments  repository.CommentRepository
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(workflows *workflow.TicketWorkflows, tickets repository.TicketRepository, comments repository.CommentRepository) *TicketsHandler {
	return &TicketsHandler{workflows: workflows, tickets: tickets, comments: comments}
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}

	ticket, err := h.tickets.GetByIDForUser(c.UserContext(), c.Params("id"), principal.User.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("ticket", nil)
		}
		return util.MapError(err)
	}

	comments, err := h.comments.ListByTicket(c.UserContext(), ticket.ID)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket, comments)})
}

// ListTickets GET /tickets. Optional status, order_id and ordered_assay_id
// query filters; always scoped to the authenticated user.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}

	filter := repository.TicketFilter{
		UserID: &principal.User.ID,
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TicketStatus(raw)
		if status != domain.TicketStatusOpen && status != domain.TicketStatusClosed {
			return util.NewValidationError("invalid status filter", nil)
		}
		filter.Status = &status
	}
	if raw := c.Query("order_id"); raw != "" {
		filter.OrderID = &raw
	}
	if raw := c.Query("ordered_assay_id"); raw != "" {
		filter.OrderedAssayID = &raw
	}

	tickets, err := h.tickets.ListWithFilter(c.UserContext(), filter)
	if err != nil {
		return util.MapError(err)
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i], nil))
	}
	return c.JSON(fiber.Map{"data": items})
}

// TicketAvailability GET /projects/:id/ticket-availability. Lets the UI
// steer the user to a plan upgrade before they draft a ticket for a
// completed project.
func (h *TicketsHandler) TicketAvailability(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}

	available, err := h.workflows.TicketAvailability(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	data := fiber.Map{"available": available}
	if !available {
		data["message"] = domain.TicketsNotAvailableMessage
	}
	return c.JSON(fiber.Map{"data": data})
}

// CloseTicket POST /tickets/:id/close. The owner or any admin may close;
// closed tickets stop accepting comments.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	ticket, err := h.loadTicket(c, principal)
	if err != nil {
		return err
	}
	if ticket.Closed() {
		return c.JSON(fiber.Map{"success": true})
	}
	if err := h.tickets.UpdateStatus(c.UserContext(), ticket.ID, domain.TicketStatusClosed); err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return util.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	run := h.workflows.CreateTicket(c.UserContext(), workflow.CreateTicketInput{
		Title:            req.Title,
		Description:      req.Description,
		PreferredContact: req.PreferredContact,
		OrderID:          req.OrderID,
		OrderedAssayID:   req.OrderedAssayID,
		User:             principal.User,
	})
	if run.Failed() {
		return workflowFailure(c, run)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    dto.NewTicketResponse(run.Ticket(), nil),
	})
}

// AddComment POST /tickets/:id/comments. Users comment on their own
// tickets; admins on any ticket.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.loadTicket(c, principal)
	if err != nil {
		return err
	}

	run := h.workflows.AddComment(c.UserContext(), workflow.AddCommentInput{
		Ticket: ticket,
		Body:   req.Body,
		User:   principal.User,
		Admin:  principal.Admin,
	})
	if run.Failed() {
		return workflowFailure(c, run)
	}
	comment := run.Comment()
	resp := dto.NewCommentResponse(comment)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "data": resp})
}

// UpdateComment PATCH /comments/:id.
func (h *TicketsHandler) UpdateComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	comment, err := h.loadOwnComment(c, principal)
	if err != nil {
		return err
	}

	run := h.workflows.UpdateComment(c.UserContext(), workflow.UpdateCommentInput{
		Comment: comment,
		Body:    req.Body,
	})
	if run.Failed() {
		return workflowFailure(c, run)
	}
	resp := dto.NewCommentResponse(run.Comment())
	return c.JSON(fiber.Map{"success": true, "data": resp})
}

// DeleteComment DELETE /comments/:id.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	comment, err := h.loadOwnComment(c, principal)
	if err != nil {
		return err
	}

	run := h.workflows.DeleteComment(c.UserContext(), workflow.DeleteCommentInput{Comment: comment})
	if run.Failed() {
		return workflowFailure(c, run)
	}
	return c.JSON(fiber.Map{"success": true})
}

// loadTicket resolves the path ticket with ownership enforced for users.
func (h *TicketsHandler) loadTicket(c *fiber.Ctx, principal *auth.Principal) (*domain.Ticket, error) {
	id := c.Params("id")
	var (
		ticket *domain.Ticket
		err    error
	)
	if principal.User != nil {
		ticket, err = h.tickets.GetByIDForUser(c.UserContext(), id, principal.User.ID)
	} else {
		ticket, err = h.tickets.GetByID(c.UserContext(), id)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("ticket", nil)
		}
		return nil, util.MapError(err)
	}
	return ticket, nil
}

// loadOwnComment resolves the path comment and enforces that the caller
// authored it.
func (h *TicketsHandler) loadOwnComment(c *fiber.Ctx, principal *auth.Principal) (*domain.Comment, error) {
	comment, err := h.comments.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("comment", nil)
		}
		return nil, util.MapError(err)
	}

	switch {
	case principal.User != nil && comment.Author.IsUser() && comment.Author.UserID != nil && *comment.Author.UserID == principal.User.ID:
	case principal.Admin != nil && comment.Author.IsAdmin() && comment.Author.AdminID != nil && *comment.Author.AdminID == principal.Admin.ID:
	default:
		return nil, util.NewForbidden("not the comment author")
	}
	return comment, nil
}

// workflowFailure turns a failed run into the uniform mutation response.
func workflowFailure(c *fiber.Ctx, run *workflow.Run) error {
	resp := dto.WorkflowResponse{
		Success: false,
		Message: run.Message(),
		Errors:  run.ValidationErrors(),
	}
	return c.Status(http.StatusUnprocessableEntity).JSON(resp)
}
