// Package controller implements the HTTP actions of the brainstorming app.
// Every action logs through an injected logger so tests can assert on the
// events it emits.
package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/repository"
)

var errBlankSessionName = errors.New("session name must not be blank")

// HomeController lists and creates sessions.
type HomeController struct {
	repo  repository.SessionRepository
	log   *logpipe.Logger
	clock clock.Clock
}

// NewHomeController wires the home actions.
func NewHomeController(repo repository.SessionRepository, logger *logpipe.Logger, c clock.Clock) *HomeController {
	return &HomeController{repo: repo, log: logger, clock: c}
}

// Index renders the session list. It emits one Information event on success.
func (h *HomeController) Index(c *gin.Context) {
	sessions, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, "Unable to load sessions.")
		return
	}

	vm := HomeIndexViewModel{Sessions: make([]StormSessionViewModel, 0, len(sessions))}
	for _, s := range sessions {
		vm.Sessions = append(vm.Sessions, sessionViewModel(s))
	}

	h.log.Info("listed sessions", "count", len(sessions))
	c.HTML(http.StatusOK, "index.html", vm)
}

// Create adds a session from the posted form. An invalid form emits one
// Warning event and never reaches the repository.
func (h *HomeController) Create(c *gin.Context) {
	var form NewSessionForm
	err := c.ShouldBind(&form)
	if err == nil && strings.TrimSpace(form.SessionName) == "" {
		err = errBlankSessionName
	}
	if err != nil {
		h.log.Warn("invalid session form", "fields", strings.Join(invalidFields(err), ","), "error", err)
		c.HTML(http.StatusBadRequest, "index.html", HomeIndexViewModel{
			Form:   form,
			Errors: validationMessages(err),
		})
		return
	}

	s, err := h.repo.Add(c.Request.Context(), model.Session{
		Name:        strings.TrimSpace(form.SessionName),
		DateCreated: h.clock.Now(),
	})
	if err != nil {
		h.log.Error("failed to add session", "error", err)
		c.String(http.StatusInternalServerError, "Unable to create session.")
		return
	}

	h.log.Info("created session", "id", s.ID, "name", s.Name)
	c.Redirect(http.StatusFound, "/")
}
