// Package listrecipes handles GET /recipes.
package listrecipes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/svatrous/instept-backend/internal/handler"
	"github.com/svatrous/instept-backend/internal/i18n"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type summary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	HeroImageURL string    `json:"hero_image_url,omitempty"`
	AuthorName   string    `json:"author_name"`
	Time         string    `json:"time"`
	Category     string    `json:"category"`
	Rating       float64   `json:"rating"`
	ReviewsCount int       `json:"reviews_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type listResponse struct {
	Recipes []summary `json:"recipes"`
	LastID  string    `json:"last_id,omitempty"`
}

// store lists recipe documents.
type store interface {
	ListDocuments(ctx context.Context, afterID string, limit int) ([]*recipedb.Document, error)
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

// ListRecipes returns a page of recipe summaries, continuing after the
// document named by the after parameter.
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			handler.RespondError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	docs, err := h.store.ListDocuments(r.Context(), r.URL.Query().Get("after"), limit)
	if err != nil {
		if errors.Is(err, recipedb.ErrUnavailable) {
			handler.RespondError(w, r, http.StatusServiceUnavailable, "recipe store unavailable")
			return
		}
		slog.ErrorContext(r.Context(), "listrecipes: listing documents", "error", err)
		handler.RespondError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	language := i18n.UserLanguage(r.Context())
	res := listResponse{Recipes: make([]summary, 0, len(docs))}
	for _, doc := range docs {
		title := ""
		if recipe := doc.Resolve(language, h.baseLanguage); recipe != nil {
			title = recipe.Title
		}
		res.Recipes = append(res.Recipes, summary{
			ID:           doc.ID,
			Title:        title,
			HeroImageURL: doc.HeroImageURL,
			AuthorName:   doc.Metadata.AuthorName,
			Time:         doc.Metadata.Time,
			Category:     doc.Metadata.Category,
			Rating:       doc.Rating,
			ReviewsCount: doc.ReviewsCount,
			CreatedAt:    doc.CreatedAt,
		})
	}
	if len(docs) > 0 {
		res.LastID = docs[len(docs)-1].ID
	}

	handler.RespondJSON(w, r, http.StatusOK, res)
}
