package email

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
)

// DigestOption configures a Digest.
type DigestOption func(*Digest)

// WithClock sets the clock that drives the flush ticker.
func WithClock(c clock.Clock) DigestOption {
	return func(d *Digest) { d.clock = c }
}

// WithOnError sets the callback for failed flushes. Default: standard log.
func WithOnError(f func(error)) DigestOption {
	return func(d *Digest) { d.errFunc = f }
}

// WithFlushOnClose makes Close send whatever is buffered. Default: true.
func WithFlushOnClose(enabled bool) DigestOption {
	return func(d *Digest) { d.flushOnClose = enabled }
}

// Digest buffers events and mails them as one message every period.
// Emit and the flush swap share a mutex, so an event lands in exactly one
// digest.
type Digest struct {
	mailer       Mailer
	subject      string
	period       time.Duration
	clock        clock.Clock
	errFunc      func(error)
	flushOnClose bool

	mu      sync.Mutex
	pending []model.LogEvent

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewDigest creates a digest route. Call Start to begin periodic flushing.
func NewDigest(mailer Mailer, subject string, period time.Duration, opts ...DigestOption) *Digest {
	d := &Digest{
		mailer:       mailer,
		subject:      subject,
		period:       period,
		clock:        clock.Real(),
		flushOnClose: true,
		errFunc:      func(err error) { log.Printf("email digest: flush failed: %v", err) },
		stop:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit appends the event to the pending digest.
func (d *Digest) Emit(_ context.Context, ev model.LogEvent) error {
	d.mu.Lock()
	d.pending = append(d.pending, ev)
	d.mu.Unlock()
	return nil
}

// Pending returns the number of buffered events.
func (d *Digest) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Start creates the ticker and runs the flush loop in the background until
// ctx is cancelled or Close is called.
func (d *Digest) Start(ctx context.Context) {
	ticker := d.clock.NewTicker(d.period)
	d.done = make(chan struct{})
	go func() {
		defer close(d.done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.stop:
				return
			case <-ticker.C():
				if err := d.Flush(ctx); err != nil {
					d.errFunc(err)
				}
			}
		}
	}()
}

// Flush sends everything buffered so far as a single message. Nothing is
// sent when the buffer is empty. A failed batch is not retried.
func (d *Digest) Flush(ctx context.Context) error {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := d.mailer.Send(ctx, d.compose(batch)); err != nil {
		return fmt.Errorf("digest of %d events: %w", len(batch), err)
	}
	return nil
}

func (d *Digest) compose(batch []model.LogEvent) Message {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d events between %s and %s\n\n",
		len(batch),
		batch[0].Timestamp.Format(time.RFC3339),
		batch[len(batch)-1].Timestamp.Format(time.RFC3339))
	for _, ev := range batch {
		sb.WriteString(output.FormatLine(ev, time.RFC3339))
		sb.WriteByte('\n')
	}
	return Message{
		Subject: fmt.Sprintf("%s (digest, %d events)", d.subject, len(batch)),
		Body:    sb.String(),
	}
}

// Close stops the flush loop and, if configured, sends the remaining
// buffered events with a bounded timeout.
func (d *Digest) Close() error {
	d.stopOnce.Do(func() { close(d.stop) })
	if d.done != nil {
		<-d.done
	}
	if !d.flushOnClose {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultSendTimeout)
	defer cancel()
	return d.Flush(ctx)
}
