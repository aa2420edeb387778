package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// LogNotifier records that a message was dropped instead of delivering it.
// Used when EMAIL_ENABLED=false. Only the recipient and subject are logged;
// bodies carry verification tokens.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Send(ctx context.Context, notification NotificationData) error {
	if notification.To == "" {
		return fmt.Errorf("notification requires 'To' address")
	}
	l.logger.InfoContext(ctx, "Notification not delivered, email disabled",
		"to", notification.To,
		"subject", notification.Subject,
	)
	return nil
}
