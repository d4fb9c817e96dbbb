// Package rate handles POST /rate.
package rate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

type rateRequest struct {
	RecipeID string `json:"recipe_id"`
	Rating   int    `json:"rating"`
}

// store updates document ratings.
type store interface {
	UpdateRating(ctx context.Context, id string, rating int) (*recipedb.RatingSummary, error)
}

func NewHandler(store store) *Handler {
	return &Handler{
		store: store,
	}
}

type Handler struct {
	store store
}

// Rate folds a user rating into the document's aggregate and returns the
// updated summary.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := handler.Decode(r, &req); err != nil {
		handler.RespondError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RecipeID == "" {
		handler.RespondError(w, r, http.StatusBadRequest, "recipe_id is required")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		handler.RespondError(w, r, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	summary, err := h.store.UpdateRating(r.Context(), req.RecipeID, req.Rating)
	if err != nil {
		if errors.Is(err, recipedb.ErrUnavailable) {
			handler.RespondError(w, r, http.StatusServiceUnavailable, "recipe store unavailable")
			return
		}
		slog.ErrorContext(r.Context(), "rate: updating rating", "error", err)
		handler.RespondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if summary == nil {
		handler.RespondError(w, r, http.StatusNotFound, "recipe not found")
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, summary)
}
