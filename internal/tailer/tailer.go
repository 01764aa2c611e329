package tailer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/watcher"
)

// Option configures a Tailer.
type Option func(*Tailer)

// WithFromStart makes the tailer read files that already exist from the
// beginning instead of seeking to their end.
func WithFromStart(v bool) Option {
	return func(t *Tailer) { t.fromStart = v }
}

// Tailer reads newly appended lines from watched files and emits RawLine values.
type Tailer struct {
	mu        sync.Mutex
	files     map[string]*trackedFile
	out       chan model.RawLine
	events    <-chan watcher.Event
	watch     *watcher.Watcher
	fromStart bool
}

type trackedFile struct {
	path   string
	file   *os.File
	reader *bufio.Reader
	buf    string // partial line buffer
}

// New creates a Tailer that reads events from the given Watcher.
func New(w *watcher.Watcher, opts ...Option) *Tailer {
	t := &Tailer{
		files:  make(map[string]*trackedFile),
		out:    make(chan model.RawLine, 512),
		events: w.Events,
		watch:  w,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lines returns the channel where raw log lines are sent.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start begins processing watcher events. Blocks until context is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)
	defer t.closeAll()

	// Open all initially watched files.
	for _, p := range t.watch.Paths() {
		t.openFile(p, t.fromStart)
		if t.fromStart {
			t.readNewLines(ctx, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-t.events:
			if !ok {
				return
			}
			t.handleEvent(ctx, ev)
		}
	}
}

// handleEvent dispatches watcher events to the appropriate handler.
func (t *Tailer) handleEvent(ctx context.Context, ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Create != 0:
		// A new day's file: read it from the start.
		t.openFile(ev.Path, true)
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Write != 0:
		t.openFile(ev.Path, true)
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		t.closeFile(ev.Path)
	}
}

// openFile opens a file for tailing, either at its start or its end.
func (t *Tailer) openFile(path string, fromStart bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		log.Printf("cannot open %s: %v", path, err)
		return
	}
	if !fromStart {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			log.Printf("cannot seek %s: %v", path, err)
		}
	}

	t.files[path] = &trackedFile{
		path:   path,
		file:   f,
		reader: bufio.NewReader(f),
	}
}

// readNewLines reads to EOF and emits complete lines. A trailing partial
// line is held until the rest of it is written.
func (t *Tailer) readNewLines(ctx context.Context, path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	for {
		chunk, err := tf.reader.ReadString('\n')
		if err != nil {
			tf.buf += chunk
			if !errors.Is(err, io.EOF) {
				log.Printf("read error on %s: %v", path, err)
			}
			return
		}

		line := tf.buf + chunk[:len(chunk)-1]
		tf.buf = ""
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}

		select {
		case t.out <- model.RawLine{Text: line, Source: path}:
		case <-ctx.Done():
			return
		}
	}
}

// closeFile releases a tracked file.
func (t *Tailer) closeFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// closeAll closes all tracked file handles.
func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
