package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
)

// CreateTicketInput describes the caller-supplied ticket fields.
type CreateTicketInput struct {
	Title            string
	Description      string
	PreferredContact *domain.PreferredContact
	OrderID          *string
	OrderedAssayID   *string
	User             *domain.User
}

// CreateTicket runs the ticket creation chain: build, authorize, persist,
// audit event, superadmin notification. The returned run always carries the
// ticket, persisted or not.
func (w *TicketWorkflows) CreateTicket(ctx context.Context, input CreateTicketInput) *Run {
	run := NewRun()
	run.SetUser(input.User)
	org := Organize("create_ticket",
		w.buildTicket(input),
		w.authorizeTicketCreation(input),
		w.persistTicket(),
		w.createTicketEvent(),
		w.notifyAboutTicketCreation(),
	)
	return w.call(ctx, org, run)
}

func (w *TicketWorkflows) buildTicket(input CreateTicketInput) Step {
	return func(ctx context.Context, run *Run) {
		user := input.User
		ticket := &domain.Ticket{
			Title:            input.Title,
			Description:      input.Description,
			PreferredContact: input.PreferredContact,
			OrderID:          input.OrderID,
			OrderedAssayID:   input.OrderedAssayID,
		}
		run.SetTicket(ticket)

		if !user.Confirmed() {
			run.Fail(UnconfirmedEmailMessage)
			return
		}
		ticket.UserID = user.ID
		ticket.Author = domain.UserAuthor(user.ID)
		ticket.Status = domain.TicketStatusOpen
	}
}

// authorizeTicketCreation checks ownership of the referenced order or
// project and, for projects, the plan's ticketing entitlement. The built
// ticket stays attached to the run on denial so the caller can inspect the
// attempted references.
func (w *TicketWorkflows) authorizeTicketCreation(input CreateTicketInput) Step {
	return func(ctx context.Context, run *Run) {
		user := input.User
		switch {
		case input.OrderedAssayID != nil:
			assay, err := w.assays.GetByIDForUser(ctx, *input.OrderedAssayID, user.ID)
			if err != nil {
				w.logger.Error("ordered assay lookup failed", zap.Error(err))
				run.Fail(CouldNotCreateMessage)
				return
			}
			if assay == nil {
				run.Fail(CouldNotCreateMessage)
				return
			}
			plan, err := w.plans.GetByCode(ctx, user.PlanCode)
			if err != nil {
				w.logger.Error("plan lookup failed", zap.String("plan", user.PlanCode), zap.Error(err))
				run.Fail(CouldNotCreateMessage)
				return
			}
			if !plan.AllowsTicketsFor(assay, w.now()) {
				run.Fail(CouldNotCreateMessage)
			}
		case input.OrderID != nil:
			owned, err := w.orders.ExistsForUser(ctx, *input.OrderID, user.ID)
			if err != nil {
				w.logger.Error("order ownership lookup failed", zap.Error(err))
				run.Fail(CouldNotCreateMessage)
				return
			}
			if !owned {
				run.Fail(CouldNotCreateMessage)
			}
		}
		// A ticket referencing neither is allowed at this gate; validation
		// decides whether that shape is acceptable.
	}
}

func (w *TicketWorkflows) persistTicket() Step {
	return func(ctx context.Context, run *Run) {
		ticket := run.Ticket()
		if errs := ticket.Validate(run.User()); !errs.Empty() {
			run.SetValidationErrors(errs)
			run.Fail("")
			return
		}
		if err := w.tickets.Create(ctx, ticket); err != nil {
			w.logger.Error("ticket insert failed", zap.Error(err))
			run.Fail(CouldNotCreateMessage)
		}
	}
}

func (w *TicketWorkflows) createTicketEvent() Step {
	return func(ctx context.Context, run *Run) {
		ticket := run.Ticket()
		user := run.User()

		orderID, err := w.eventOrderID(ctx, ticket)
		if err != nil {
			w.logger.Error("event order resolution failed", zap.Error(err))
			run.Fail("")
			return
		}

		event := &domain.Event{
			ID:             uuid.NewString(),
			EventType:      domain.EventTicketCreated,
			Title:          "Ticket #" + ticket.ID + " created",
			OrderID:        orderID,
			OrderedAssayID: ticket.OrderedAssayID,
			UserID:         user.ID,
			Meta: map[string]string{
				"author":    ticket.Author.DisplayName(w.names(ctx), false),
				"user":      user.FullName(),
				"ticket_id": ticket.ID,
			},
		}
		if err := w.events.Create(ctx, event); err != nil {
			w.logger.Error("event insert failed", zap.Error(err))
			run.Fail("")
			return
		}
		run.SetEvent(event)
	}
}

func (w *TicketWorkflows) notifyAboutTicketCreation() Step {
	return func(ctx context.Context, run *Run) {
		w.notifySuperadmins(ctx, notify.Message{
			Kind:     notify.KindTicketCreated,
			TicketID: run.Ticket().ID,
		})
	}
}

// eventOrderID resolves the order an event should link to: the ticket's
// order, or the order behind the ticket's project.
func (w *TicketWorkflows) eventOrderID(ctx context.Context, ticket *domain.Ticket) (*string, error) {
	if ticket.OrderID != nil {
		return ticket.OrderID, nil
	}
	if ticket.OrderedAssayID == nil {
		return nil, nil
	}
	assay, err := w.assays.GetByID(ctx, *ticket.OrderedAssayID)
	if err != nil {
		return nil, err
	}
	return &assay.OrderID, nil
}
