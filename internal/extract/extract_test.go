package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svatrous/instept-backend/internal/download"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare json", in: `{"title":"Borscht"}`, want: `{"title":"Borscht"}`},
		{name: "json fence", in: "```json\n{\"title\":\"Borscht\"}\n```", want: `{"title":"Borscht"}`},
		{name: "plain fence", in: "```\n{\"title\":\"Borscht\"}\n```", want: `{"title":"Borscht"}`},
		{name: "surrounding whitespace", in: "  \n{\"title\":\"Borscht\"}\n  ", want: `{"title":"Borscht"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripFences(tc.in))
		})
	}
}

func TestParseDraft(t *testing.T) {
	recipe, err := parseDraft("```json\n{\"title\":\"Borscht\",\"steps\":[{\"description\":\"Chop beets.\"},{\"description\":\"Simmer.\"}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Borscht", recipe.Title)
	require.Len(t, recipe.Steps, 2)

	_, err = parseDraft("I could not find a recipe in this video.")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestBackfill_Defaults(t *testing.T) {
	recipe, err := parseDraft(`{"title":"Borscht","description":"A soup.","steps":[{"description":"Chop beets."},{"description":"Simmer."}]}`)
	require.NoError(t, err)

	backfill(recipe, download.Metadata{}, "https://platform.example/reel/XYZ123", "en")

	assert.Equal(t, "https://platform.example/reel/XYZ123", recipe.SourceURL)
	assert.Equal(t, "en", recipe.Language)
	assert.GreaterOrEqual(t, recipe.Rating, 4.0)
	assert.Less(t, recipe.Rating, 5.0)
	assert.GreaterOrEqual(t, recipe.ReviewsCount, 50)
	assert.LessOrEqual(t, recipe.ReviewsCount, 500)
	assert.GreaterOrEqual(t, recipe.LikesCount, 100)
	assert.LessOrEqual(t, recipe.LikesCount, 10000)
	assert.Equal(t, "Instept Chef", recipe.AuthorName)
	assert.NotEmpty(t, recipe.AuthorAvatar)
	assert.Equal(t, "Main dishes", recipe.Category)
	assert.NotEmpty(t, recipe.Time)
	assert.NotEmpty(t, recipe.Difficulty)
	assert.NotEmpty(t, recipe.Calories)
	assert.Len(t, recipe.Steps, 2)
	assert.False(t, recipe.CreatedAt.IsZero())
}

func TestBackfill_PrefersVideoMetadata(t *testing.T) {
	recipe, err := parseDraft(`{"title":"","description":"","steps":[]}`)
	require.NoError(t, err)

	meta := download.Metadata{AuthorName: "uploader", Title: "Video title", Description: "Video description"}
	backfill(recipe, meta, "https://platform.example/reel/XYZ", "en")

	assert.Equal(t, "uploader", recipe.AuthorName)
	assert.Equal(t, "Video title", recipe.Title)
	assert.Equal(t, "Video description", recipe.Description)
}

func TestBackfill_KeepsModelFields(t *testing.T) {
	recipe, err := parseDraft(`{"title":"Borscht","category":"Soups","time":"45 min","difficulty":"Easy","calories":"200 kcal","steps":[]}`)
	require.NoError(t, err)

	backfill(recipe, download.Metadata{AuthorName: "uploader"}, "https://platform.example/reel/XYZ", "en")

	assert.Equal(t, "Soups", recipe.Category)
	assert.Equal(t, "45 min", recipe.Time)
	assert.Equal(t, "Easy", recipe.Difficulty)
	assert.Equal(t, "200 kcal", recipe.Calories)
	assert.Equal(t, "uploader", recipe.AuthorName)
}
