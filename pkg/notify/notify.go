// Package notify delivers scan alerts. The channel is a capability: when
// credentials are missing the caller gets a no-op notifier instead of a
// runtime branch at every send site.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier sends one text message, best effort.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Nop is the notifier used when the channel is not configured. It records
// locally that delivery was skipped and never fails.
type Nop struct {
	Logger *zap.Logger
}

func (n Nop) Send(ctx context.Context, text string) error {
	n.Logger.Info("notification channel not configured, message not sent",
		zap.String("text", text))
	return nil
}

// FromEnv returns a Telegram notifier when both credentials are present,
// otherwise a Nop.
func FromEnv(token, chatID string, logger *zap.Logger) Notifier {
	if token == "" || chatID == "" {
		logger.Warn("telegram credentials missing, alerts disabled")
		return Nop{Logger: logger}
	}
	return NewTelegram(token, chatID)
}
