package model

import "time"

// Session is a brainstorming session and the ideas collected in it.
type Session struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	DateCreated time.Time `json:"dateCreated"`
	Ideas       []Idea    `json:"ideas"`
}

// Idea is a single contribution to a session.
type Idea struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateCreated time.Time `json:"dateCreated"`
}

// AddIdea appends an idea to the session.
func (s *Session) AddIdea(idea Idea) {
	s.Ideas = append(s.Ideas, idea)
}
