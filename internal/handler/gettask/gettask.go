// Package gettask handles GET /tasks/{taskID}.
package gettask

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/pipeline"
)

// queue looks up task records.
type queue interface {
	Task(id string) (*pipeline.Task, bool)
}

func NewHandler(queue queue) *Handler {
	return &Handler{
		queue: queue,
	}
}

type Handler struct {
	queue queue
}

// GetTask returns the record of an analysis task.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.queue.Task(chi.URLParam(r, "taskID"))
	if !ok {
		handler.RespondError(w, r, http.StatusNotFound, "task not found")
		return
	}
	handler.RespondJSON(w, r, http.StatusOK, task)
}
