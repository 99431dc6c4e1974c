package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/domain"
)

// UpdateCommentInput describes a comment body edit.
type UpdateCommentInput struct {
	Comment *domain.Comment
	Body    string
}

// UpdateComment runs the two-step update chain: closed gate, then mutate
// and revalidate. Deliberately lighter than creation: no audit event, no
// notification.
func (w *TicketWorkflows) UpdateComment(ctx context.Context, input UpdateCommentInput) *Run {
	run := NewRun()
	run.SetComment(input.Comment)
	org := Organize("update_comment",
		w.requireOpenTicketForComment(input.Comment),
		w.applyCommentUpdate(input),
	)
	return w.call(ctx, org, run)
}

func (w *TicketWorkflows) requireOpenTicketForComment(comment *domain.Comment) Step {
	return func(ctx context.Context, run *Run) {
		ticket, err := w.tickets.GetByID(ctx, comment.TicketID)
		if err != nil {
			w.logger.Error("ticket lookup failed", zap.Error(err))
			run.Fail("")
			return
		}
		run.SetTicket(ticket)
		if ticket.Closed() {
			run.Fail(TicketClosedMessage)
		}
	}
}

func (w *TicketWorkflows) applyCommentUpdate(input UpdateCommentInput) Step {
	return func(ctx context.Context, run *Run) {
		comment := run.Comment()
		comment.Body = input.Body
		if errs := comment.Validate(); !errs.Empty() {
			run.SetValidationErrors(errs)
			run.Fail("")
			return
		}
		if err := w.comments.Update(ctx, comment); err != nil {
			w.logger.Error("comment update failed", zap.Error(err))
			run.Fail("")
		}
	}
}
