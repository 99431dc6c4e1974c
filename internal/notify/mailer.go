package notify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bioproximity/support-service/internal/config"
)

// Mailer delivers a single notification descriptor to its recipient.
type Mailer interface {
	Deliver(ctx context.Context, msg Message) error
}

// LogMailer writes deliveries to the log. Sending is gated on a configured
// From address, so the service runs without a mail provider in development.
type LogMailer struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewLogMailer creates the mailer.
func NewLogMailer(logger *zap.Logger, cfg config.NotificationConfig) *LogMailer {
	return &LogMailer{logger: logger, cfg: cfg}
}

// Deliver logs the outbound message.
func (m *LogMailer) Deliver(ctx context.Context, msg Message) error {
	if strings.TrimSpace(m.cfg.EmailFrom) == "" {
		return nil
	}
	fields := []zap.Field{
		zap.String("from", m.cfg.EmailFrom),
		zap.String("kind", string(msg.Kind)),
		zap.String("ticket_id", msg.TicketID),
	}
	if msg.CommentID != "" {
		fields = append(fields, zap.String("comment_id", msg.CommentID))
	}
	if msg.AdminID != nil {
		fields = append(fields, zap.String("admin_id", *msg.AdminID))
	}
	if msg.UserID != nil {
		fields = append(fields, zap.String("user_id", *msg.UserID))
	}
	m.logger.Info("deliver notification", fields...)
	return nil
}
