package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

var now = time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

func TestSeed(t *testing.T) {
	repo, err := NewMemory(WithSeed(now))
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 seeded sessions, got %d", len(sessions))
	}
	if sessions[0].ID != 1 || len(sessions[0].Ideas) != 1 {
		t.Errorf("unexpected first session: %+v", sessions[0])
	}

	added, err := repo.Add(context.Background(), model.Session{Name: "third"})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID != 3 {
		t.Errorf("expected id 3 after seed, got %d", added.ID)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo, _ := NewMemory()
	_, err := repo.GetByID(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Update(context.Background(), model.Session{ID: 42}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Update, got %v", err)
	}
}

func TestUpdateIsolation(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewMemory()
	s, _ := repo.Add(ctx, model.Session{Name: "ideas"})

	got, _ := repo.GetByID(ctx, s.ID)
	got.AddIdea(model.Idea{ID: "a", Name: "first"})

	// The caller's copy is not shared with the repository until Update.
	fresh, _ := repo.GetByID(ctx, s.ID)
	if len(fresh.Ideas) != 0 {
		t.Fatal("repository state changed without Update")
	}

	if err := repo.Update(ctx, got); err != nil {
		t.Fatal(err)
	}
	fresh, _ = repo.GetByID(ctx, s.ID)
	if len(fresh.Ideas) != 1 || fresh.Ideas[0].Name != "first" {
		t.Fatalf("unexpected ideas after update: %+v", fresh.Ideas)
	}
}

func TestStorePersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "sessions.json")

	repo, err := NewMemory(WithStore(NewStore(path)), WithSeed(now))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Add(ctx, model.Session{Name: "persisted", DateCreated: now}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}

	// A second repository over the same file sees all three sessions and
	// does not reseed.
	again, err := NewMemory(WithStore(NewStore(path)), WithSeed(now))
	if err != nil {
		t.Fatal(err)
	}
	sessions, _ := again.List(ctx)
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions after reload, got %d", len(sessions))
	}
	if sessions[2].Name != "persisted" || !sessions[2].DateCreated.Equal(now) {
		t.Errorf("unexpected reloaded session: %+v", sessions[2])
	}
}

func TestStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewMemory(WithStore(NewStore(path))); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	repo, _ := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Add(ctx, model.Session{Name: "s"})
		}()
	}
	wg.Wait()

	sessions, _ := repo.List(ctx)
	if len(sessions) != 50 {
		t.Fatalf("expected 50 sessions, got %d", len(sessions))
	}
	for i, s := range sessions {
		if s.ID != i+1 {
			t.Fatalf("expected dense ids, got %d at %d", s.ID, i)
		}
	}
}
