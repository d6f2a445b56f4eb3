package stub

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-motivation-delivery/internal/infra/taskqueue"
)

const defaultQueue = "default"

type Handler struct {
	storage *TaskStorage
}

func NewHandler(storage *TaskStorage) *Handler {
	return &Handler{storage: storage}
}

// Register mounts the Primind Tasks compatible routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/tasks", h.HandleCreateTask)
	r.POST("/tasks/:queue", h.HandleCreateTask)
	r.DELETE("/tasks/:queue", h.HandleDeleteTask)
	r.DELETE("/tasks/:queue/:name", h.HandleDeleteTask)
	r.GET("/stub/tasks", h.HandleListTasks)
	r.POST("/stub/reset", h.HandleReset)
}

func (h *Handler) HandleReset(c *gin.Context) {
	h.storage.Reset()

	slog.Info("reset stub queue")

	c.JSON(http.StatusOK, gin.H{"status": "reset complete"})
}

func (h *Handler) HandleCreateTask(c *gin.Context) {
	queue := c.Param("queue")
	if queue == "" {
		queue = defaultQueue
	}

	var req taskqueue.PrimindTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Task.HTTPRequest.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "httpRequest.url is required"})
		return
	}

	body, err := base64.StdEncoding.DecodeString(req.Task.HTTPRequest.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "httpRequest.body must be base64"})
		return
	}

	now := time.Now()
	scheduleTime := now
	if req.Task.ScheduleTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.Task.ScheduleTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scheduleTime: " + req.Task.ScheduleTime})
			return
		}
		scheduleTime = parsed
	}

	name := req.Task.Name
	if name == "" {
		name = uuid.NewString()
	}

	task, created := h.storage.Add(&Task{
		Name:         name,
		Queue:        queue,
		URL:          req.Task.HTTPRequest.URL,
		Body:         body,
		Headers:      req.Task.HTTPRequest.Headers,
		ScheduleTime: scheduleTime,
		CreateTime:   now,
	})

	slog.Debug("task accepted",
		slog.String("queue", queue),
		slog.String("name", name),
		slog.Time("schedule_time", scheduleTime),
		slog.Bool("created", created),
	)

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// HandleDeleteTask serves both /tasks/{name} on the default queue and
// /tasks/{queue}/{name}.
func (h *Handler) HandleDeleteTask(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		name = c.Param("queue")
	}

	if !h.storage.Delete(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	slog.Debug("task deleted", slog.String("name", name))

	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleListTasks(c *gin.Context) {
	c.JSON(http.StatusOK, h.storage.Snapshot())
}

// NewHTTPDispatcher posts each due task to its target URL.
func NewHTTPDispatcher(client *http.Client) DispatchFunc {
	return func(ctx context.Context, task *Task) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, task.URL, bytes.NewReader(task.Body))
		if err != nil {
			return err
		}
		for k, v := range task.Headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			slog.Warn("task dispatch failed",
				slog.String("name", task.Name),
				slog.String("error", err.Error()),
			)
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			slog.Warn("task target rejected dispatch",
				slog.String("name", task.Name),
				slog.Int("status_code", resp.StatusCode),
				slog.Int("attempt", task.Attempts),
			)
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		slog.Info("task dispatched",
			slog.String("name", task.Name),
			slog.Int("attempt", task.Attempts),
		)
		return nil
	}
}
