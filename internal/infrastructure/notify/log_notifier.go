package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/venuedesk/backend/internal/application/effect"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Use this in development and tests, or when no SMTP host is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the notification and returns a synthetic message ID
func (n *LogNotifier) Send(ctx context.Context, kind effect.NotificationKind, recipient string, payload map[string]interface{}) (string, error) {
	messageID := uuid.New().String()
	n.logger.Info("notification (log only)",
		zap.String("kind", string(kind)),
		zap.String("recipient", recipient),
		zap.String("message_id", messageID),
		zap.Any("payload", payload))
	return messageID, nil
}

// Ensure LogNotifier implements Notifier
var _ effect.Notifier = (*LogNotifier)(nil)
