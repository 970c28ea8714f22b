// Package mail delivers outbound notification email. Delivery is a
// fire-and-forget capability: failures are logged and never propagated to
// the primary action.
package mail

import (
	"fmt"

	"campushub/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends a single HTML message
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer sends mail through a configured SMTP relay
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendAsync delivers on a separate goroutine so email latency or failure
// never blocks or fails the request that triggered it.
func SendAsync(mailer Mailer, to, subject, html string) {
	go func() {
		if err := mailer.Send(to, subject, html); err != nil {
			zap.L().Error("email delivery failed",
				zap.String("to", to),
				zap.String("subject", subject),
				zap.Error(err))
		}
	}()
}
