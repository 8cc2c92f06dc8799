package ws

import (
	"context"
	"errors"
	"log"
	"net/http"

	"mastery-service/internal/engine"
	"mastery-service/internal/models"
	"mastery-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The gateway already enforces origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// inbound is one client frame.
type inbound struct {
	Type           string `json:"type"`
	Answer         string `json:"answer"`
	ResponseTimeMs int    `json:"response_time_ms"`
	HesitationMs   int    `json:"hesitation_ms"`
}

type outbound struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Handler serves the per-session websocket turn loop.
type Handler struct {
	manager *session.Manager
}

func NewHandler(manager *session.Manager) *Handler {
	return &Handler{manager: manager}
}

// Serve upgrades the connection and runs the session until completion
// or disconnect.
func (h *Handler) Serve(c *gin.Context) {
	sessionID := c.Param("id")
	entry, ok := h.manager.Get(sessionID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found or not active"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARNING: websocket upgrade failed for session %s: %v", sessionID, err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// First question before the client says anything.
	if done := h.sendNext(ctx, conn, entry); done {
		h.teardown(ctx, sessionID, entry)
		return
	}

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Session %s disconnected: %v", sessionID, err)
			h.teardown(ctx, sessionID, entry)
			return
		}

		done := h.handleFrame(ctx, conn, entry, msg)
		if done {
			h.teardown(ctx, sessionID, entry)
			return
		}
	}
}

func (h *Handler) handleFrame(ctx context.Context, conn *websocket.Conn, entry *session.Entry, msg inbound) bool {
	switch msg.Type {
	case "answer":
		return h.handleAnswer(ctx, conn, entry, msg)
	case "skip":
		if err := entry.Do(func(ctrl *engine.Controller) error {
			return ctrl.ProcessSkip(ctx)
		}); err != nil {
			h.sendError(conn, err)
			return false
		}
		h.send(conn, outbound{Type: "skipped"})
		return h.sendNext(ctx, conn, entry)
	case "peek":
		var answer string
		if err := entry.Do(func(ctrl *engine.Controller) error {
			var err error
			answer, err = ctrl.ProcessPeek(ctx)
			return err
		}); err != nil {
			h.sendError(conn, err)
			return false
		}
		h.send(conn, outbound{Type: "peek", Payload: gin.H{"answer": answer}})
		return false
	case "hint":
		var hint string
		_ = entry.Do(func(ctrl *engine.Controller) error {
			hint = ctrl.Hint()
			return nil
		})
		h.send(conn, outbound{Type: "hint", Payload: gin.H{"hint": hint}})
		return false
	default:
		h.send(conn, outbound{Type: "error", Error: "unknown message type: " + msg.Type})
		return false
	}
}

func (h *Handler) handleAnswer(ctx context.Context, conn *websocket.Conn, entry *session.Entry, msg inbound) bool {
	var fb *engine.Feedback
	err := entry.Do(func(ctrl *engine.Controller) error {
		var err error
		fb, err = ctrl.SubmitAnswer(ctx, msg.Answer, msg.ResponseTimeMs, msg.HesitationMs)
		return err
	})
	if err != nil {
		h.sendError(conn, err)
		return false
	}

	h.send(conn, outbound{Type: "feedback", Payload: fb})

	if fb.SessionComplete {
		h.send(conn, outbound{Type: "session_complete", Payload: fb.Stats})
		return true
	}
	return h.sendNext(ctx, conn, entry)
}

// sendNext pushes the next question. It reports true when the session
// is over and the loop should stop.
func (h *Handler) sendNext(ctx context.Context, conn *websocket.Conn, entry *session.Entry) bool {
	var q *engine.QuestionPayload
	err := entry.Do(func(ctrl *engine.Controller) error {
		var err error
		q, err = ctrl.NextQuestion(ctx)
		return err
	})
	if errors.Is(err, engine.ErrSessionComplete) {
		var stats *engine.SessionStats
		_ = entry.Do(func(ctrl *engine.Controller) error {
			mastered, merr := ctrl.MasteredCount(ctx)
			if merr != nil {
				return merr
			}
			stats = ctrl.Stats(mastered)
			return nil
		})
		h.send(conn, outbound{Type: "session_complete", Payload: stats})
		return true
	}
	if err != nil {
		h.sendError(conn, err)
		return true
	}

	h.send(conn, outbound{Type: "question", Payload: q})
	return false
}

func (h *Handler) teardown(ctx context.Context, sessionID string, entry *session.Entry) {
	_ = entry.Do(func(ctrl *engine.Controller) error {
		status := models.SessionEnded
		if mastered, err := ctrl.MasteredCount(ctx); err == nil {
			if stats := ctrl.Stats(mastered); stats.ConceptsMastered >= stats.TotalConcepts {
				status = models.SessionCompleted
			}
		}
		ctrl.Close(ctx, status)
		return nil
	})
	h.manager.Remove(sessionID)
}

func (h *Handler) send(conn *websocket.Conn, msg outbound) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("WARNING: websocket write failed: %v", err)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, err error) {
	h.send(conn, outbound{Type: "error", Error: err.Error()})
}
