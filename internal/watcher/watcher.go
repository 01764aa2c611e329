package watcher

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultPattern matches the files written by the rolling file sink.
const DefaultPattern = "logs-*.log"

// Event represents a file change detected by the watcher.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors a log directory for changes to files matching a glob
// pattern. Watching the directory rather than single files picks up the
// file for a new day as soon as it is created.
type Watcher struct {
	fsw     *fsnotify.Watcher
	Events  chan Event
	dir     string
	pattern string
	paths   []string
}

// New creates a Watcher for files under dir matching pattern.
// Existing matches are expanded at startup and returned by Paths.
func New(dir, pattern string) (*Watcher, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(abs); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", abs, err)
	}

	w := &Watcher{
		fsw:     fsw,
		Events:  make(chan Event, 256),
		dir:     abs,
		pattern: pattern,
	}
	w.paths, err = Expand(abs, pattern)
	if err != nil {
		log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
	}
	return w, nil
}

// Start begins listening for file events. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.Match(ev.Name) {
				continue
			}
			// Forward relevant events (write, create, remove, rename).
			switch {
			case ev.Op&fsnotify.Write != 0,
				ev.Op&fsnotify.Create != 0,
				ev.Op&fsnotify.Remove != 0,
				ev.Op&fsnotify.Rename != 0:
				select {
				case w.Events <- Event{Path: ev.Name, Op: ev.Op}:
				case <-ctx.Done():
					return
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// Dir returns the absolute directory being watched.
func (w *Watcher) Dir() string {
	return w.dir
}

// Paths returns the matching files that existed when the watcher started,
// oldest day first.
func (w *Watcher) Paths() []string {
	return w.paths
}

// Match reports whether path is inside the watched directory and matches
// the pattern.
func (w *Watcher) Match(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return false
	}
	ok, _ := doublestar.Match(filepath.ToSlash(w.pattern), filepath.ToSlash(rel))
	return ok
}

// Expand resolves pattern under dir to matching file paths in lexical
// order, which for dated log files is chronological.
// Supports recursive patterns like **/*.log via doublestar.
func Expand(dir, pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern), doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
