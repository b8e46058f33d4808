// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/devcollab/devcollab/internal/app/system/apperr"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Email is one message to one recipient.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
}

// Mailer sends email over SMTP.
//
// A new SMTP connection is opened per Send, so a Mailer is safe for
// concurrent use.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New returns a Mailer for cfg. Missing settings are reported per Send.
func New(cfg Config, logger *zap.Logger) *Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Mailer{cfg: cfg, log: logger}
}

// IsConfigured reports whether a host and sender address are set.
func (m *Mailer) IsConfigured() bool {
	return m.cfg.Host != "" && m.cfg.From != ""
}

// Send delivers e.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	if !m.IsConfigured() {
		return apperr.NotConfigured("smtp", "mail not configured")
	}

	msg, err := m.buildMsg(e)
	if err != nil {
		return apperr.Invalid("email to %q: %v", e.To, err)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return apperr.NotConfigured("smtp", fmt.Sprintf("smtp client: %v", err))
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Warn("email send failed", zap.String("to", e.To), zap.Error(err))
		return apperr.Upstream("smtp", err)
	}
	m.log.Debug("email sent", zap.String("to", e.To), zap.String("subject", e.Subject))
	return nil
}

func (m *Mailer) buildMsg(e Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	msg.Subject(e.Subject)

	switch {
	case e.TextBody != "" && e.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextPlain, e.TextBody)
		msg.AddAlternativeString(mail.TypeTextHTML, e.HTMLBody)
	case e.HTMLBody != "":
		msg.SetBodyString(mail.TypeTextHTML, e.HTMLBody)
	default:
		msg.SetBodyString(mail.TypeTextPlain, e.TextBody)
	}
	return msg, nil
}
