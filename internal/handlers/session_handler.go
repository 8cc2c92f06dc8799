package handlers

import (
	"context"
	"errors"
	"net/http"

	"mastery-service/internal/engine"
	"mastery-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler {
	return &SessionHandler{Service: s}
}

// StartSession opens a study session over a ready material and returns
// the websocket URL the client should connect to.
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID required"})
		return
	}

	session, conceptCount, err := h.Service.Start(context.Background(), userID, c.Param("materialId"))
	switch {
	case errors.Is(err, service.ErrMaterialNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Material not found"})
	case errors.Is(err, service.ErrMaterialNotReady):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNoConcepts):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Material has no concepts"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
	default:
		c.JSON(http.StatusCreated, gin.H{
			"session":       session,
			"websocket_url": "/ws/" + session.ID,
			"concept_count": conceptCount,
		})
	}
}

// GetStats reports progress for a live or finished session.
func (h *SessionHandler) GetStats(c *gin.Context) {
	stats, err := h.Service.Stats(context.Background(), c.Param("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// EndSession closes a live session before all concepts are mastered.
func (h *SessionHandler) EndSession(c *gin.Context) {
	session, err := h.Service.End(context.Background(), c.Param("id"))
	if errors.Is(err, service.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end session"})
		return
	}
	c.JSON(http.StatusOK, session)
}
