package handlers

import (
	"fmt"
	"net/http"

	"schedulsy-api/internal/middleware"
	"schedulsy-api/internal/tracker"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the session and dashboard views.
type SessionHandler struct {
	stores *tracker.Manager
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(stores *tracker.Manager) *SessionHandler {
	return &SessionHandler{stores: stores}
}

// GetSession handles GET /api/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{
		"status":      sess.Status,
		"displayName": sess.DisplayName,
		"greeting":    sess.Greeting(),
	})
}

// GetDashboard handles GET /api/dashboard
// Returns the greeting, progress overview and task list in one payload.
func (h *SessionHandler) GetDashboard(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	tasks, err := h.stores.Open(sess.ID).Tasks(c.Request.Context())
	if err != nil {
		respondTaskError(c, "load dashboard", err)
		return
	}
	metrics := tracker.Project(tasks)

	c.JSON(http.StatusOK, gin.H{
		"displayName": sess.DisplayName,
		"greeting":    sess.Greeting(),
		"summary":     fmt.Sprintf("Let's make today productive. You have %d tasks pending.", metrics.PendingCount),
		"metrics":     metrics,
		"tasks":       tasks,
	})
}
