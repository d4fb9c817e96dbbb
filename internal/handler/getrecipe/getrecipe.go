// Package getrecipe handles GET /recipes/{recipeID}.
package getrecipe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/i18n"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

// store reads recipe documents.
type store interface {
	GetDocumentByID(ctx context.Context, id string) (*recipedb.Document, error)
}

func NewHandler(store store, baseLanguage string) *Handler {
	return &Handler{
		store:        store,
		baseLanguage: baseLanguage,
	}
}

type Handler struct {
	store        store
	baseLanguage string
}

// GetRecipe returns a stored recipe in the requested language, falling back
// to the base language when the requested one was never produced.
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "recipeID")

	doc, err := h.store.GetDocumentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, recipedb.ErrUnavailable) {
			handler.RespondError(w, r, http.StatusServiceUnavailable, "recipe store unavailable")
			return
		}
		slog.ErrorContext(r.Context(), "getrecipe: getting document", "error", err)
		handler.RespondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if doc == nil {
		handler.RespondError(w, r, http.StatusNotFound, "recipe not found")
		return
	}

	language := r.URL.Query().Get("language")
	if language == "" {
		language = i18n.UserLanguage(r.Context())
	}
	recipe := doc.Resolve(language, h.baseLanguage)
	if recipe == nil {
		handler.RespondError(w, r, http.StatusNotFound, "recipe not found")
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, recipe)
}
