package logpipe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// Sink receives admitted events.
type Sink interface {
	Emit(ctx context.Context, event model.LogEvent) error
	Close() error
}

// Kind names the family a sink belongs to.
type Kind string

const (
	KindConsole  Kind = "console"
	KindFile     Kind = "rolling-file"
	KindEventLog Kind = "event-log"
	KindEmail    Kind = "email-route"
	KindLive     Kind = "live"
	KindStats    Kind = "stats"
	KindMemory   Kind = "memory"
)

// Binding attaches a sink to the pipeline with its own minimum severity.
type Binding struct {
	Name    string
	Kind    Kind
	Minimum model.Severity
	Sink    Sink
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSink registers a sink. Sinks are invoked in registration order.
func WithSink(name string, kind Kind, sink Sink, minimum model.Severity) Option {
	return func(p *Pipeline) {
		p.bindings = append(p.bindings, Binding{Name: name, Kind: kind, Minimum: minimum, Sink: sink})
	}
}

// WithOnError sets the callback for sink failures. The default writes a
// single line to stderr through the standard logger.
func WithOnError(f func(sink string, err error)) Option {
	return func(p *Pipeline) { p.onError = f }
}

// WithClock sets the clock used to timestamp events.
func WithClock(c clock.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// Pipeline filters events and fans them out to bound sinks.
type Pipeline struct {
	resolver  *LevelResolver
	bindings  []Binding
	onError   func(sink string, err error)
	clock     clock.Clock
	closeOnce sync.Once
}

// New creates a Pipeline. The binding set is fixed after construction.
func New(resolver *LevelResolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		clock:    clock.Real(),
		onError: func(sink string, err error) {
			log.Printf("logpipe: sink %s failed: %v", sink, err)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolver returns the pipeline's level resolver.
func (p *Pipeline) Resolver() *LevelResolver {
	return p.resolver
}

// Bindings returns a copy of the registered bindings.
func (p *Pipeline) Bindings() []Binding {
	out := make([]Binding, len(p.bindings))
	copy(out, p.bindings)
	return out
}

// Enabled reports whether an event from source at sev would reach any sink.
func (p *Pipeline) Enabled(source string, sev model.Severity) bool {
	if sev < p.resolver.EffectiveMinimum(source) {
		return false
	}
	for _, b := range p.bindings {
		if sev >= b.Minimum {
			return true
		}
	}
	return false
}

// Dispatch delivers the event to every admitting sink. Sink errors and
// panics are reported through the error callback and never returned.
func (p *Pipeline) Dispatch(ctx context.Context, event model.LogEvent) {
	if event.Severity < p.resolver.EffectiveMinimum(event.Source) {
		return
	}
	for _, b := range p.bindings {
		if event.Severity < b.Minimum {
			continue
		}
		if err := emit(ctx, b.Sink, event); err != nil {
			p.onError(b.Name, err)
		}
	}
}

func emit(ctx context.Context, s Sink, event model.LogEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Emit(ctx, event)
}

// Logger returns a logger that emits events under the given source name.
func (p *Pipeline) Logger(source string) *Logger {
	return &Logger{p: p, source: source}
}

// Close closes every sink once, collecting errors.
func (p *Pipeline) Close() error {
	var errs []error
	p.closeOnce.Do(func() {
		for _, b := range p.bindings {
			if err := b.Sink.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", b.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}
