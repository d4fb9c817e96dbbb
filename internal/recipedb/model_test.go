package recipedb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeUnmarshalJSON_Coercion(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Recipe
	}{
		{
			name: "numeric display fields",
			in:   `{"title":"Borscht","time":30,"difficulty":2,"calories":350,"category":1}`,
			want: Recipe{Title: "Borscht", Time: "30", Difficulty: "2", Calories: "350", Category: "1"},
		},
		{
			name: "string numeric fields",
			in:   `{"title":"Borscht","rating":"4.5","reviews_count":"120","likes_count":"900"}`,
			want: Recipe{Title: "Borscht", Rating: 4.5, ReviewsCount: 120, LikesCount: 900},
		},
		{
			name: "float count",
			in:   `{"title":"Borscht","reviews_count":120.0}`,
			want: Recipe{Title: "Borscht", ReviewsCount: 120},
		},
		{
			name: "already stringly typed",
			in:   `{"title":"Borscht","time":"30 min","difficulty":"Easy","calories":"350 kcal","category":"Soups","rating":4.5}`,
			want: Recipe{Title: "Borscht", Time: "30 min", Difficulty: "Easy", Calories: "350 kcal", Category: "Soups", Rating: 4.5},
		},
		{
			name: "null fields",
			in:   `{"title":"Borscht","time":null,"rating":null}`,
			want: Recipe{Title: "Borscht"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got Recipe
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecipeUnmarshalJSON_Steps(t *testing.T) {
	in := `{"title":"Borscht","steps":[{"description":"Chop beets."},{"description":"Simmer.","image_url":"https://img.example/1.png"}]}`
	var got Recipe
	require.NoError(t, json.Unmarshal([]byte(in), &got))
	require.Len(t, got.Steps, 2)
	assert.Empty(t, got.Steps[0].ImageURL)
	assert.Equal(t, "https://img.example/1.png", got.Steps[1].ImageURL)
}

func TestDocumentResolve(t *testing.T) {
	en := &Recipe{Title: "Borscht", Language: "en"}
	fr := &Recipe{Title: "Bortsch", Language: "fr"}
	doc := &Document{Translations: map[string]*Recipe{"en": en, "fr": fr}}

	assert.Same(t, fr, doc.Resolve("fr", "en"))
	assert.Same(t, en, doc.Resolve("de", "en"), "missing language falls back to base")

	doc = &Document{Translations: map[string]*Recipe{"fr": fr}}
	assert.Same(t, fr, doc.Resolve("de", "en"), "missing base falls back to any language")

	doc = &Document{}
	assert.Nil(t, doc.Resolve("en", "en"))
}
