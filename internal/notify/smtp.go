package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier delivers tokens over email via an SMTP relay.
type SMTPNotifier struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *SMTPNotifier) SendVerification(ctx context.Context, email, name, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nPlease verify your email address using the token below:\r\n\r\n%s\r\n\r\nIf you did not create this account, ignore this message.\r\n",
		name, token)
	return n.send(ctx, email, "Verify your email address", body)
}

func (n *SMTPNotifier) SendPasswordReset(ctx context.Context, email, name, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nA password reset was requested for your account. Use the token below within one hour:\r\n\r\n%s\r\n\r\nIf you did not request a reset, ignore this message.\r\n",
		name, token)
	return n.send(ctx, email, "Reset your password", body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
