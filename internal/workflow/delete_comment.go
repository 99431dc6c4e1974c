package workflow

import (
	"context"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/domain"
)

// DeleteCommentInput describes a comment removal.
type DeleteCommentInput struct {
	Comment *domain.Comment
}

// DeleteComment runs the two-step delete chain: closed gate, then hard
// delete. No audit event, no notification.
func (w *TicketWorkflows) DeleteComment(ctx context.Context, input DeleteCommentInput) *Run {
	run := NewRun()
	run.SetComment(input.Comment)
	org := Organize("delete_comment",
		w.requireOpenTicketForComment(input.Comment),
		w.destroyComment(),
	)
	return w.call(ctx, org, run)
}

func (w *TicketWorkflows) destroyComment() Step {
	return func(ctx context.Context, run *Run) {
		if err := w.comments.Delete(ctx, run.Comment().ID); err != nil {
			w.logger.Error("comment delete failed", zap.Error(err))
			run.Fail("")
		}
	}
}
