// Package repository stores brainstorming sessions.
package repository

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// ErrNotFound is returned when a session id is unknown.
var ErrNotFound = errors.New("session not found")

// SessionRepository is the storage contract the controllers depend on.
type SessionRepository interface {
	List(ctx context.Context) ([]model.Session, error)
	GetByID(ctx context.Context, id int) (model.Session, error)
	Add(ctx context.Context, s model.Session) (model.Session, error)
	Update(ctx context.Context, s model.Session) error
}

// Memory keeps sessions in a map. When a Store is attached every change is
// written through to it.
type Memory struct {
	mu       sync.RWMutex
	sessions map[int]model.Session
	nextID   int
	store    *Store
	seedAt   time.Time
}

// Option configures a Memory repository.
type Option func(*Memory)

// WithStore persists every change to the given snapshot store and loads
// its contents at construction.
func WithStore(s *Store) Option {
	return func(m *Memory) { m.store = s }
}

// WithSeed adds sample sessions dated relative to now when the repository
// starts empty.
func WithSeed(now time.Time) Option {
	return func(m *Memory) { m.seedAt = now }
}

// NewMemory creates a repository, loading the attached store if any.
func NewMemory(opts ...Option) (*Memory, error) {
	m := &Memory{sessions: make(map[int]model.Session)}
	for _, opt := range opts {
		opt(m)
	}

	var initial []model.Session
	if m.store != nil {
		loaded, err := m.store.Load()
		if err != nil {
			return nil, err
		}
		initial = loaded
	}
	if len(initial) == 0 && !m.seedAt.IsZero() {
		initial = seedSessions(m.seedAt)
	}
	for _, s := range initial {
		m.sessions[s.ID] = s
		m.nextID = max(m.nextID, s.ID)
	}
	return m, nil
}

// List returns every session ordered by id.
func (m *Memory) List(_ context.Context) ([]model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, clone(s))
	}
	slices.SortFunc(out, func(a, b model.Session) int { return a.ID - b.ID })
	return out, nil
}

// GetByID returns the session or ErrNotFound.
func (m *Memory) GetByID(_ context.Context, id int) (model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	return clone(s), nil
}

// Add assigns the next id to s and stores it.
func (m *Memory) Add(_ context.Context, s model.Session) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	s.ID = m.nextID
	m.sessions[s.ID] = clone(s)
	if err := m.persist(); err != nil {
		delete(m.sessions, s.ID)
		m.nextID--
		return model.Session{}, err
	}
	return s, nil
}

// Update replaces an existing session.
func (m *Memory) Update(_ context.Context, s model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.sessions[s.ID]
	if !ok {
		return ErrNotFound
	}
	m.sessions[s.ID] = clone(s)
	if err := m.persist(); err != nil {
		m.sessions[s.ID] = prev
		return err
	}
	return nil
}

// persist writes the snapshot. Callers hold the write lock.
func (m *Memory) persist() error {
	if m.store == nil {
		return nil
	}
	all := make([]model.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	slices.SortFunc(all, func(a, b model.Session) int { return a.ID - b.ID })
	return m.store.Save(all)
}

func clone(s model.Session) model.Session {
	s.Ideas = slices.Clone(s.Ideas)
	return s
}

func seedSessions(now time.Time) []model.Session {
	s := model.Session{ID: 1, Name: "Test Session 1", DateCreated: now.AddDate(0, 0, -2)}
	s.AddIdea(model.Idea{
		ID:          "seed-idea-1",
		Name:        "Awesome idea",
		Description: "Totally awesome idea",
		DateCreated: now.AddDate(0, 0, -1),
	})
	return []model.Session{
		s,
		{ID: 2, Name: "Test Session 2", DateCreated: now.AddDate(0, 0, -1)},
	}
}
