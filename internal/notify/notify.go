// Package notify delivers one-time tokens to users out of band. The service
// layer depends only on the Notifier interface; delivery failures never leak
// into API responses for the enumeration-safe flows.
package notify

import "context"

// Notifier sends account lifecycle messages carrying one-time tokens.
type Notifier interface {
	// SendVerification delivers an email verification token.
	SendVerification(ctx context.Context, email, name, token string) error

	// SendPasswordReset delivers a password reset token.
	SendPasswordReset(ctx context.Context, email, name, token string) error
}
