package controller

import (
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// StormSessionViewModel is one session as shown in lists and detail views.
type StormSessionViewModel struct {
	ID          int
	Name        string
	DateCreated time.Time
	IdeaCount   int
}

// HomeIndexViewModel backs the home page.
type HomeIndexViewModel struct {
	Sessions []StormSessionViewModel
	Form     NewSessionForm
	Errors   []string
}

// NewSessionForm is the posted home page form.
type NewSessionForm struct {
	SessionName string `form:"SessionName" binding:"required"`
}

// NewIdeaModel is the JSON body of an idea creation request.
type NewIdeaModel struct {
	SessionID   int    `json:"sessionId" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// IdeaDTO is an idea as returned by the JSON API.
type IdeaDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateCreated time.Time `json:"dateCreated"`
}

func sessionViewModel(s model.Session) StormSessionViewModel {
	return StormSessionViewModel{
		ID:          s.ID,
		Name:        s.Name,
		DateCreated: s.DateCreated,
		IdeaCount:   len(s.Ideas),
	}
}

func ideaDTOs(ideas []model.Idea) []IdeaDTO {
	out := make([]IdeaDTO, 0, len(ideas))
	for _, i := range ideas {
		out = append(out, IdeaDTO{ID: i.ID, Name: i.Name, Description: i.Description, DateCreated: i.DateCreated})
	}
	return out
}
