package logpipe

import (
	"context"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// Logger emits events for a single source. Child loggers created with
// With or ForSource share the pipeline. A nil *Logger discards everything.
type Logger struct {
	p      *Pipeline
	source string
	attrs  []any
}

// Source returns the logger's source name.
func (l *Logger) Source() string {
	if l == nil {
		return ""
	}
	return l.source
}

// With returns a child logger that adds the key-value pairs to every event.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || len(args) == 0 {
		return l
	}
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{p: l.p, source: l.source, attrs: attrs}
}

// ForSource returns a logger for another source that keeps the attributes.
func (l *Logger) ForSource(source string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{p: l.p, source: source, attrs: l.attrs}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.Log(context.Background(), model.SeverityDebug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.Log(context.Background(), model.SeverityInformation, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.Log(context.Background(), model.SeverityWarning, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.Log(context.Background(), model.SeverityError, msg, args...)
}

// Fatal records a Fatal event. It does not exit the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Log(context.Background(), model.SeverityFatal, msg, args...)
}

// Log builds an event from msg and alternating key-value args and hands it
// to the pipeline. A value stored under the key "error" that implements
// error becomes the event's exception text.
func (l *Logger) Log(ctx context.Context, sev model.Severity, msg string, args ...any) {
	if l == nil || l.p == nil {
		return
	}
	if sev < l.p.resolver.EffectiveMinimum(l.source) {
		return
	}

	var props map[string]any
	var exception string
	add := func(kv []any) {
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				continue
			}
			if err, ok := kv[i+1].(error); ok && key == "error" {
				if err != nil {
					exception = err.Error()
				}
				continue
			}
			if props == nil {
				props = make(map[string]any)
			}
			props[key] = kv[i+1]
		}
	}
	add(l.attrs)
	add(args)

	ev := model.NewLogEvent(l.p.clock.Now(), sev, l.source, msg, props)
	ev.Exception = exception
	l.p.Dispatch(ctx, ev)
}
