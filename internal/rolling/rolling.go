// Package rolling writes log events to one plain-text file per UTC
// calendar day.
package rolling

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
)

const (
	// DefaultPrefix and DefaultExt give file names like logs-20260217.log.
	DefaultPrefix = "logs-"
	DefaultExt    = ".log"

	dayLayout = "20060102"
)

// Option configures a Writer.
type Option func(*Writer)

// WithPrefix sets the file name prefix. Default: "logs-".
func WithPrefix(prefix string) Option {
	return func(w *Writer) { w.prefix = prefix }
}

// Writer appends formatted events to the file for the event's UTC day.
// It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	dir    string
	prefix string
	file   *os.File
	day    string // day key of the open file
}

// New creates a Writer rooted at dir. The directory is created if needed;
// files are opened lazily on the first event of each day.
func New(dir string, opts ...Option) (*Writer, error) {
	w := &Writer{dir: dir, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(w)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("rolling: create log directory: %w", err)
	}
	return w, nil
}

// Path returns the file that holds events from the UTC day of ts.
func (w *Writer) Path(ev model.LogEvent) string {
	return filepath.Join(w.dir, w.prefix+ev.Timestamp.UTC().Format(dayLayout)+DefaultExt)
}

// Emit appends one line for the event, switching files on day change.
func (w *Writer) Emit(_ context.Context, ev model.LogEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	day := ev.Timestamp.UTC().Format(dayLayout)
	if w.file == nil || day != w.day {
		if err := w.roll(day, w.Path(ev)); err != nil {
			return err
		}
	}

	utc := ev
	utc.Timestamp = ev.Timestamp.UTC()
	line := output.FormatLine(utc, output.FileTimeLayout) + "\n"
	if _, err := w.file.WriteString(line); err != nil {
		return fmt.Errorf("rolling: write %s: %w", w.file.Name(), err)
	}
	return nil
}

// roll closes the current file and opens the one for day.
// The caller must hold the mutex.
func (w *Writer) roll(day, path string) error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: closing log file %s: %v\n", w.file.Name(), err)
		}
		w.file = nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("rolling: open %s: %w", path, err)
	}
	w.file = f
	w.day = day
	return nil
}

// Sync flushes the open file to disk.
func (w *Writer) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close syncs and closes the open file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		w.file = nil
		return fmt.Errorf("rolling: sync: %w", err)
	}
	err := w.file.Close()
	w.file = nil
	return err
}
