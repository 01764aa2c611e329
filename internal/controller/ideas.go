package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/repository"
)

// IdeasController is the JSON API for ideas.
type IdeasController struct {
	repo  repository.SessionRepository
	log   *logpipe.Logger
	clock clock.Clock
}

// NewIdeasController wires the ideas API.
func NewIdeasController(repo repository.SessionRepository, logger *logpipe.Logger, c clock.Clock) *IdeasController {
	return &IdeasController{repo: repo, log: logger, clock: c}
}

// ForSession returns the ideas of a session.
func (i *IdeasController) ForSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		i.log.Warn("invalid session id", "id", c.Param("id"))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	session, err := i.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		i.log.Warn("ideas requested for unknown session", "id", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		i.log.Error("failed to load session", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load session"})
		return
	}

	c.JSON(http.StatusOK, ideaDTOs(session.Ideas))
}

// Create adds an idea to a session. An invalid model emits one Error event
// and persists nothing.
func (i *IdeasController) Create(c *gin.Context) {
	var m NewIdeaModel
	if err := c.ShouldBindJSON(&m); err != nil {
		i.log.Error("invalid idea model", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationMessages(err)})
		return
	}

	ctx := c.Request.Context()
	session, err := i.repo.GetByID(ctx, m.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		i.log.Warn("idea for unknown session", "sessionId", m.SessionID)
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		i.log.Error("failed to load session", "sessionId", m.SessionID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load session"})
		return
	}

	idea := model.Idea{
		ID:          uuid.NewString(),
		Name:        m.Name,
		Description: m.Description,
		DateCreated: i.clock.Now(),
	}
	session.AddIdea(idea)
	if err := i.repo.Update(ctx, session); err != nil {
		i.log.Error("failed to save idea", "sessionId", session.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save idea"})
		return
	}

	i.log.Info("added idea", "sessionId", session.ID, "idea", idea.ID)
	c.JSON(http.StatusOK, session)
}
