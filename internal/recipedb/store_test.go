package recipedb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationMerge_OnlyTouchesLanguageKey(t *testing.T) {
	recipe := &Recipe{Title: "Bortsch", Language: "fr"}
	merge := translationMerge(recipe, "fr")

	require.Len(t, merge, 1, "merge must not write top-level fields of an existing document")
	translations, ok := merge["translations"].(map[string]any)
	require.True(t, ok)
	require.Len(t, translations, 1, "merge must not write sibling languages")
	assert.Same(t, recipe, translations["fr"])
}

func TestNewDocument_SeedsMetadata(t *testing.T) {
	recipe := &Recipe{
		Title:        "Borscht",
		AuthorName:   "chef",
		Time:         "45 min",
		Category:     "Soups",
		Rating:       4.3,
		ReviewsCount: 120,
		HeroImageURL: "https://img.example/hero.png",
		Language:     "en",
	}
	doc := newDocument(recipe, "https://platform.example/reel/XYZ", "en")

	assert.Equal(t, "https://platform.example/reel/XYZ", doc.SourceURL)
	assert.Equal(t, "chef", doc.Metadata.AuthorName)
	assert.Equal(t, "45 min", doc.Metadata.Time)
	assert.Equal(t, "Soups", doc.Metadata.Category)
	assert.InDelta(t, 4.3, doc.Rating, 0.001)
	assert.Equal(t, 120, doc.ReviewsCount)
	assert.Equal(t, "https://img.example/hero.png", doc.HeroImageURL)
	require.Len(t, doc.Translations, 1)
	assert.Same(t, recipe, doc.Translations["en"])
}

func TestFoldRating(t *testing.T) {
	tests := []struct {
		name      string
		rating    float64
		count     int
		added     int
		want      float64
		wantCount int
	}{
		{name: "first rating", rating: 0, count: 0, added: 5, want: 5, wantCount: 1},
		{name: "running mean", rating: 4, count: 3, added: 5, want: 4.25, wantCount: 4},
		{name: "pulls down", rating: 5, count: 1, added: 1, want: 3, wantCount: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, gotCount := foldRating(tc.rating, tc.count, tc.added)
			assert.InDelta(t, tc.want, got, 0.001)
			assert.Equal(t, tc.wantCount, gotCount)
		})
	}
}

func TestStoreUnavailable(t *testing.T) {
	store := NewStore(nil, "recipes")
	ctx := context.Background()

	_, err := store.GetDocument(ctx, "https://platform.example/reel/XYZ")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.SaveTranslation(ctx, &Recipe{}, "https://platform.example/reel/XYZ", "en")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.UpdateRating(ctx, "id", 5)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.ListDocuments(ctx, "", 10)
	assert.ErrorIs(t, err, ErrUnavailable)
}
