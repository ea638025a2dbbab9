package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes tokens to the structured log instead of sending mail.
// Intended for development and tests where no SMTP relay is available.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendVerification(ctx context.Context, email, name, token string) error {
	n.log.InfoContext(ctx, "verification token issued",
		"email", email,
		"token", token,
	)
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, email, name, token string) error {
	n.log.InfoContext(ctx, "password reset token issued",
		"email", email,
		"token", token,
	)
	return nil
}
