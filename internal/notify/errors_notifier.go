package notify

import (
	"context"

	"go.uber.org/zap"
)

// ErrorNotifier reports operational faults to whoever is on call. The
// shipping and payment adapters use it for carrier and processor failures.
type ErrorNotifier interface {
	Notify(ctx context.Context, subject string, details map[string]string)
}

// QueueErrorNotifier logs the fault and enqueues an error-report message.
// Enqueue failures are logged and swallowed; error reporting must never
// fail the operation that triggered it.
type QueueErrorNotifier struct {
	queue  Queue
	logger *zap.Logger
}

// NewQueueErrorNotifier creates the notifier.
func NewQueueErrorNotifier(queue Queue, logger *zap.Logger) *QueueErrorNotifier {
	return &QueueErrorNotifier{queue: queue, logger: logger}
}

// Notify records the fault.
func (n *QueueErrorNotifier) Notify(ctx context.Context, subject string, details map[string]string) {
	n.logger.Error("operational fault", zap.String("subject", subject), zap.Any("details", details))
	if n.queue == nil {
		return
	}
	err := n.queue.Enqueue(ctx, Message{
		Kind:    KindErrorReport,
		Subject: subject,
		Details: details,
	})
	if err != nil {
		n.logger.Warn("failed to enqueue error report", zap.Error(err))
	}
}
