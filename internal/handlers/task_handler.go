package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"schedulsy-api/internal/middleware"
	"schedulsy-api/internal/tracker"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskHandler serves the task intents of the authenticated session.
type TaskHandler struct {
	stores *tracker.Manager
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(stores *tracker.Manager) *TaskHandler {
	return &TaskHandler{stores: stores}
}

func (h *TaskHandler) store(c *gin.Context) *tracker.Store {
	return h.stores.Open(middleware.CurrentSession(c).ID)
}

// GetTasks handles GET /api/tasks
// Returns the session's tasks in insertion order with their metrics.
func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.store(c).Tasks(c.Request.Context())
	if err != nil {
		respondTaskError(c, "fetch tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks":   tasks,
		"metrics": tracker.Project(tasks),
	})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	task, err := h.store(c).Task(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, "fetch task", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask handles POST /api/tasks
// Appends a new PENDING task to the session's list.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	store := h.store(c)
	ctx := c.Request.Context()
	task, err := store.Add(ctx, req.Title)
	if err != nil {
		respondTaskError(c, "create task", err)
		return
	}
	metrics, ok := metricsAfter(ctx, c, store)
	if !ok {
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"task":    task,
		"metrics": metrics,
	})
}

// ToggleTask handles PATCH /api/tasks/:id/toggle
// Flips the task between COMPLETED and PENDING.
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	store := h.store(c)
	ctx := c.Request.Context()
	task, err := store.ToggleCompletion(ctx, c.Param("id"))
	if err != nil {
		respondTaskError(c, "toggle task", err)
		return
	}
	metrics, ok := metricsAfter(ctx, c, store)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":    task,
		"metrics": metrics,
	})
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID := c.Param("id")
	store := h.store(c)
	ctx := c.Request.Context()
	if err := store.Remove(ctx, taskID); err != nil {
		respondTaskError(c, "delete task", err)
		return
	}
	metrics, ok := metricsAfter(ctx, c, store)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
		"metrics": metrics,
	})
}

// GetMetrics handles GET /api/metrics
func (h *TaskHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.store(c).Metrics(c.Request.Context())
	if err != nil {
		respondTaskError(c, "compute metrics", err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// metricsAfter re-projects the store after a successful mutation.
func metricsAfter(ctx context.Context, c *gin.Context, store *tracker.Store) (tracker.Metrics, bool) {
	metrics, err := store.Metrics(ctx)
	if err != nil {
		respondTaskError(c, "compute metrics", err)
		return tracker.Metrics{}, false
	}
	return metrics, true
}

func respondTaskError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, tracker.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, tracker.ErrNotFound):
		log.Printf("%s: %v", op, err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		log.Printf("%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + op})
	}
}
