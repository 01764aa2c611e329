package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestExpandSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"logs-20240103.log", "logs-20240101.log", "other.txt", "logs-20240102.log"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Expand(dir, DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"logs-20240101.log", "logs-20240102.log", "logs-20240103.log"}
	if len(got) != len(want) {
		t.Fatalf("expected %d matches, got %v", len(want), got)
	}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Errorf("match %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestMatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	defer w.fsw.Close()

	if !w.Match(filepath.Join(w.Dir(), "logs-20240101.log")) {
		t.Error("expected dated log file to match")
	}
	if w.Match(filepath.Join(w.Dir(), "notes.txt")) {
		t.Error("expected notes.txt not to match")
	}
	if w.Match(filepath.Join(filepath.Dir(w.Dir()), "logs-20240101.log")) {
		t.Error("expected file outside the directory not to match")
	}
}

func TestInvalidPattern(t *testing.T) {
	if _, err := New(t.TempDir(), "logs-[.log"); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestWatchCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	path := filepath.Join(w.Dir(), "logs-20240105.log")
	if err := os.WriteFile(path, []byte("05 10:00 [INF] hello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_ = os.WriteFile(filepath.Join(w.Dir(), "ignored.txt"), []byte("x"), 0644)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-w.Events:
			if ev.Path != path {
				t.Fatalf("unexpected event for %s", ev.Path)
			}
			if ev.Op&fsnotify.Create != 0 {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for create event")
		}
	}
}
