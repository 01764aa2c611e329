// Package email delivers log events by mail, either one message per event
// or as a periodic digest.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/hcnaf/Logging-MentoringProgram/internal/config"
	"github.com/wneessen/go-mail"
)

// Message is a composed mail ready for delivery.
type Message struct {
	Subject string
	Body    string
}

// Mailer sends composed messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer sends messages through the SMTP server from the email settings.
type SMTPMailer struct {
	from   string
	to     []string
	client *mail.Client
}

// NewSMTPMailer builds a mailer. It does not connect until the first Send.
//
// EnableSSL selects implicit TLS on connect (usually port 465). Without it
// the connection upgrades with STARTTLS when the server offers it and
// otherwise stays plain, so credentials may then travel unencrypted.
func NewSMTPMailer(s config.EmailSettings, extra ...mail.Option) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(s.Port),
	}
	if s.EnableSSL {
		opts = append(opts, mail.WithSSL(), mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if s.UserName != "" {
		auth := mail.SMTPAuthPlain
		if !s.EnableSSL {
			auth = mail.SMTPAuthPlainNoEnc
		}
		opts = append(opts,
			mail.WithSMTPAuth(auth),
			mail.WithUsername(s.UserName),
			mail.WithPassword(s.Password),
		)
	}
	opts = append(opts, extra...)

	client, err := mail.NewClient(s.MailServer, opts...)
	if err != nil {
		return nil, fmt.Errorf("email: create client for %s: %w", s.MailServer, err)
	}
	return &SMTPMailer{
		from:   s.FromEmail,
		to:     s.Recipients(),
		client: client,
	}, nil
}

// Send delivers msg to every configured recipient.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("email: from address: %w", err)
	}
	if err := out.To(m.to...); err != nil {
		return fmt.Errorf("email: to addresses %s: %w", strings.Join(m.to, ","), err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("email: send %q: %w", msg.Subject, err)
	}
	return nil
}
