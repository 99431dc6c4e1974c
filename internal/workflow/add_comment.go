package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/domain"
	"github.com/bioproximity/support-service/internal/notify"
)

// AddCommentInput describes a new comment on a ticket. Exactly one of
// User / Admin supplies the author.
type AddCommentInput struct {
	Ticket *domain.Ticket
	Body   string
	User   *domain.User
	Admin  *domain.Admin
}

// AddComment runs the comment creation chain: closed gate, build, persist,
// audit event, notification.
func (w *TicketWorkflows) AddComment(ctx context.Context, input AddCommentInput) *Run {
	run := NewRun()
	run.SetTicket(input.Ticket)
	if input.User != nil {
		run.SetUser(input.User)
	}
	if input.Admin != nil {
		run.SetAdmin(input.Admin)
	}
	org := Organize("add_comment",
		w.requireOpenTicket(input.Ticket),
		w.buildComment(input),
		w.persistComment(),
		w.createCommentEvent(),
		w.notifyAboutComment(),
	)
	return w.call(ctx, org, run)
}

func (w *TicketWorkflows) requireOpenTicket(ticket *domain.Ticket) Step {
	return func(ctx context.Context, run *Run) {
		if ticket.Closed() {
			run.Fail(TicketClosedMessage)
		}
	}
}

func (w *TicketWorkflows) buildComment(input AddCommentInput) Step {
	return func(ctx context.Context, run *Run) {
		comment := &domain.Comment{
			TicketID: input.Ticket.ID,
			Body:     input.Body,
		}
		switch {
		case input.User != nil:
			comment.Author = domain.UserAuthor(input.User.ID)
		case input.Admin != nil:
			comment.Author = domain.AdminAuthor(input.Admin.ID)
		}
		run.SetComment(comment)

		if errs := comment.Validate(); !errs.Empty() {
			run.SetValidationErrors(errs)
			run.Fail("")
		}
	}
}

func (w *TicketWorkflows) persistComment() Step {
	return func(ctx context.Context, run *Run) {
		if err := w.comments.Create(ctx, run.Comment()); err != nil {
			w.logger.Error("comment insert failed", zap.Error(err))
			run.Fail("")
		}
	}
}

func (w *TicketWorkflows) createCommentEvent() Step {
	return func(ctx context.Context, run *Run) {
		ticket := run.Ticket()
		comment := run.Comment()

		actor := run.User()
		if actor == nil {
			owner, err := w.users.GetByID(ctx, ticket.UserID)
			if err != nil {
				w.logger.Error("ticket owner lookup failed", zap.Error(err))
				run.Fail("")
				return
			}
			actor = owner
			run.SetUser(owner)
		}

		orderID, err := w.eventOrderID(ctx, ticket)
		if err != nil {
			w.logger.Error("event order resolution failed", zap.Error(err))
			run.Fail("")
			return
		}

		event := &domain.Event{
			ID:             uuid.NewString(),
			EventType:      domain.EventCommentCreated,
			Title:          "New comment for ticket #" + ticket.ID,
			OrderID:        orderID,
			OrderedAssayID: ticket.OrderedAssayID,
			UserID:         actor.ID,
			Meta: map[string]string{
				"author":     comment.Author.DisplayName(w.names(ctx), false),
				"user":       actor.FullName(),
				"ticket_id":  ticket.ID,
				"comment_id": comment.ID,
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

// notifyAboutComment picks exactly one recipient class: superadmins for a
// comment by the ticket's owner, the owner for an admin-authored comment
// when their notification flag is set.
func (w *TicketWorkflows) notifyAboutComment() Step {
	return func(ctx context.Context, run *Run) {
		ticket := run.Ticket()
		comment := run.Comment()
		msg := notify.Message{
			Kind:      notify.KindCommentAdded,
			TicketID:  ticket.ID,
			CommentID: comment.ID,
		}

		if comment.AuthoredByTicketOwner(ticket) {
			w.notifySuperadmins(ctx, msg)
			return
		}

		owner, err := w.users.GetByID(ctx, ticket.UserID)
		if err != nil {
			w.logger.Warn("ticket owner lookup failed", zap.Error(err))
			return
		}
		if !owner.EmailNotifications {
			return
		}
		ownerID := owner.ID
		msg.UserID = &ownerID
		if err := w.queue.Enqueue(ctx, msg); err != nil {
			w.logger.Warn("failed to enqueue user notification",
				zap.String("user_id", ownerID), zap.Error(err))
		}
	}
}
