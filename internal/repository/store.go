package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// snapshot is the on-disk JSON structure.
type snapshot struct {
	Sessions []model.Session `json:"sessions"`
}

// Store persists sessions to a JSON file so they survive a restart.
type Store struct {
	path string
}

// NewStore returns a Store backed by path. The file is created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Load reads the snapshot. A missing file yields no sessions.
func (s *Store) Load() ([]model.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions %s: %w", s.path, err)
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode sessions %s: %w", s.path, err)
	}
	return data.Sessions, nil
}

// Save writes the sessions to disk atomically.
func (s *Store) Save(sessions []model.Session) error {
	raw, err := json.MarshalIndent(snapshot{Sessions: sessions}, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	// Write to a temp file first, then rename for atomicity.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
