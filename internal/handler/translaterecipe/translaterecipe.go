// Package translaterecipe handles POST /translate.
package translaterecipe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/pipeline"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

type translateRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

// translator resolves a cached recipe into a target language.
type translator interface {
	TranslateCached(ctx context.Context, sourceURL string, language string) (*recipedb.Recipe, error)
}

func NewHandler(translator translator) *Handler {
	return &Handler{
		translator: translator,
	}
}

type Handler struct {
	translator translator
}

// Translate synchronously returns a cached recipe in the requested language,
// translating from the cached base when needed. Sources that were never
// analyzed yield 404.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.RespondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" || req.Language == "" {
		handler.RespondError(w, r, http.StatusBadRequest, "url and language are required")
		return
	}

	recipe, err := h.translator.TranslateCached(r.Context(), req.URL, req.Language)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoBase) {
			handler.RespondError(w, r, http.StatusNotFound, "no recipe cached for this url, call /analyze first")
			return
		}
		slog.ErrorContext(r.Context(), "translaterecipe: translating cached recipe", "error", err)
		handler.RespondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, recipe)
}
