package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/notify"
)

// Dequeuer is the consuming side of the notification queue.
type Dequeuer interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*notify.Message, error)
}

// NotificationWorker drains the notification queue and hands each message
// to the mailer. Delivery failures are logged and the message is dropped;
// notifications are best effort.
type NotificationWorker struct {
	queue       Dequeuer
	mailer      notify.Mailer
	logger      *zap.Logger
	pollTimeout time.Duration
	retryDelay  time.Duration
}

// NewNotificationWorker creates the worker.
func NewNotificationWorker(queue Dequeuer, mailer notify.Mailer, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		queue:       queue,
		mailer:      mailer,
		logger:      logger,
		pollTimeout: 5 * time.Second,
		retryDelay:  time.Second,
	}
}

// Run consumes messages until the context is canceled.
func (w *NotificationWorker) Run(ctx context.Context) {
	w.logger.Info("notification worker started")
	for {
		if ctx.Err() != nil {
			w.logger.Info("notification worker stopped")
			return
		}

		msg, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.logger.Warn("notification dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(w.retryDelay):
			}
			continue
		}
		if msg == nil {
			continue
		}

		if err := w.mailer.Deliver(ctx, *msg); err != nil {
			w.logger.Error("notification delivery failed",
				zap.String("kind", string(msg.Kind)),
				zap.String("ticket_id", msg.TicketID),
				zap.Error(err))
		}
	}
}
