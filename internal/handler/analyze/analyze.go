// Package analyze handles POST /analyze.
package analyze

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/i18n"
	"github.com/svatrous/instept-backend/internal/pipeline"
)

type analyzeRequest struct {
	URL         string `json:"url"`
	Language    string `json:"language"`
	NotifyToken string `json:"notify_token"`
}

type analyzeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// queue accepts tasks for background processing.
type queue interface {
	Enqueue(sourceURL string, language string, notifyToken string) (*pipeline.Task, error)
}

func NewHandler(queue queue, baseLanguage string) *Handler {
	return &Handler{
		queue:        queue,
		baseLanguage: baseLanguage,
	}
}

type Handler struct {
	queue        queue
	baseLanguage string
}

// Analyze enqueues the acquisition pipeline for a source URL and acknowledges
// immediately. The outcome is delivered out-of-band via push notification, or
// observed through GET /tasks/{taskID}.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.RespondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		handler.RespondError(w, r, http.StatusBadRequest, "url is required")
		return
	}

	language := req.Language
	if language == "" {
		language = i18n.UserLanguage(r.Context())
	}
	if language == "" {
		language = h.baseLanguage
	}

	task, err := h.queue.Enqueue(req.URL, language, req.NotifyToken)
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) {
			handler.RespondError(w, r, http.StatusServiceUnavailable, "too many analyses in progress, try again later")
			return
		}
		slog.ErrorContext(r.Context(), "analyze: enqueuing task", "error", err)
		handler.RespondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	handler.RespondJSON(w, r, http.StatusAccepted, analyzeResponse{
		Status:  "processing",
		Message: "Recipe analysis started. You will be notified when it is ready.",
		TaskID:  task.ID,
	})
}
