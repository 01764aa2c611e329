package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/repository"
)

// SessionController shows a single session.
type SessionController struct {
	repo repository.SessionRepository
	log  *logpipe.Logger
}

// NewSessionController wires the session detail action.
func NewSessionController(repo repository.SessionRepository, logger *logpipe.Logger) *SessionController {
	return &SessionController{repo: repo, log: logger}
}

// Index renders one session. The id comes from the path (/session/:id) or
// the query string (/session?id=). A missing or unknown id emits one Error
// event; a found session emits two Debug events.
func (s *SessionController) Index(c *gin.Context) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		s.log.Error("invalid session id", "id", raw)
		c.Redirect(http.StatusFound, "/")
		return
	}

	session, err := s.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Error("session not found", "id", id)
		c.String(http.StatusNotFound, "Session not found.")
		return
	}
	if err != nil {
		s.log.Error("failed to load session", "id", id, "error", err)
		c.String(http.StatusInternalServerError, "Unable to load session.")
		return
	}

	s.log.Debug("session index called", "id", id)
	s.log.Debug("resolved session", "id", id, "name", session.Name)
	c.HTML(http.StatusOK, "session.html", sessionViewModel(session))
}
