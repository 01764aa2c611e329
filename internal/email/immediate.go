package email

import (
	"context"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
)

const defaultSendTimeout = 30 * time.Second

// Immediate sends one message per event. Emit blocks for the duration of
// the send, so wiring code wraps it in an async sink.
type Immediate struct {
	mailer  Mailer
	subject string
	timeout time.Duration
}

// NewImmediate creates a route that mails every event it receives.
func NewImmediate(mailer Mailer, subject string) *Immediate {
	return &Immediate{mailer: mailer, subject: subject, timeout: defaultSendTimeout}
}

func (i *Immediate) Emit(ctx context.Context, ev model.LogEvent) error {
	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()
	return i.mailer.Send(ctx, Message{
		Subject: i.subject,
		Body:    output.FormatLine(ev, time.RFC3339) + "\n",
	})
}

func (i *Immediate) Close() error { return nil }
