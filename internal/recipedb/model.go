// Package recipedb defines the recipe documents persisted in Firestore and
// the store operations over them.
package recipedb

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Ingredient is an ingredient in a recipe.
type Ingredient struct {
	// Name is the name of the ingredient.
	Name string `firestore:"name" json:"name"`

	// Amount is the quantity of the ingredient as free-form text.
	Amount string `firestore:"amount" json:"amount"`

	// Unit is the unit of the amount as free-form text.
	Unit string `firestore:"unit" json:"unit"`
}

// Step is a step in a recipe. An empty ImageURL means no illustration was
// produced for the step, which is a valid terminal state.
type Step struct {
	// Description is the description of the step.
	Description string `firestore:"description" json:"description"`

	// ImageURL is the URL of an image illustrating the step.
	ImageURL string `firestore:"imageUrl" json:"image_url,omitempty"`
}

// Recipe is the content of a recipe in a single language.
type Recipe struct {
	// ID is the identifier of the document holding the recipe.
	ID string `firestore:"id,omitempty" json:"id,omitempty"`

	// SourceURL is the URL of the video the recipe was extracted from.
	SourceURL string `firestore:"sourceUrl,omitempty" json:"source_url,omitempty"`

	// Title is the title of the recipe.
	Title string `firestore:"title" json:"title"`

	// Description is the description of the recipe.
	Description string `firestore:"description" json:"description"`

	// Category is the category of the dish, e.g. "Main dishes".
	Category string `firestore:"category" json:"category"`

	// Rating is the aggregate user rating of the recipe.
	Rating float64 `firestore:"rating" json:"rating"`

	// ReviewsCount is the number of ratings folded into Rating.
	ReviewsCount int `firestore:"reviewsCount" json:"reviews_count"`

	// Time is the preparation time as display text.
	Time string `firestore:"time" json:"time"`

	// Difficulty is the difficulty as display text.
	Difficulty string `firestore:"difficulty" json:"difficulty"`

	// Calories is the calorie count as display text.
	Calories string `firestore:"calories" json:"calories"`

	// AuthorName is the name of the recipe author.
	AuthorName string `firestore:"authorName" json:"author_name"`

	// AuthorAvatar is the URL of the author's avatar image.
	AuthorAvatar string `firestore:"authorAvatar" json:"author_avatar"`

	// HeroImageURL is the URL of the main image of the recipe.
	HeroImageURL string `firestore:"heroImageUrl,omitempty" json:"hero_image_url,omitempty"`

	// CreatedAt is the time the recipe was first extracted.
	CreatedAt time.Time `firestore:"createdAt,omitempty" json:"created_at,omitempty"`

	// LikesCount is the number of likes of the source video.
	LikesCount int `firestore:"likesCount" json:"likes_count"`

	// Ingredients are the ingredients of the recipe, in order.
	Ingredients []Ingredient `firestore:"ingredients" json:"ingredients"`

	// Steps are the steps of the recipe, in order. Step N's image, when
	// present, depicts stage N.
	Steps []Step `firestore:"steps" json:"steps"`

	// Language is the language code of the recipe text, e.g. "en".
	Language string `firestore:"language" json:"language"`
}

// UnmarshalJSON coerces display fields the model may emit as numbers into
// strings, and numeric fields it may emit as strings into numbers, so model
// output never breaks the document shape.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	aux := &struct {
		Category     json.RawMessage `json:"category"`
		Rating       json.RawMessage `json:"rating"`
		ReviewsCount json.RawMessage `json:"reviews_count"`
		Time         json.RawMessage `json:"time"`
		Difficulty   json.RawMessage `json:"difficulty"`
		Calories     json.RawMessage `json:"calories"`
		LikesCount   json.RawMessage `json:"likes_count"`
		*alias
	}{
		alias: (*alias)(r),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	r.Category = flexString(aux.Category)
	r.Time = flexString(aux.Time)
	r.Difficulty = flexString(aux.Difficulty)
	r.Calories = flexString(aux.Calories)
	r.Rating = flexFloat(aux.Rating)
	r.ReviewsCount = flexInt(aux.ReviewsCount)
	r.LikesCount = flexInt(aux.LikesCount)
	return nil
}

func flexString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

func flexFloat(raw json.RawMessage) float64 {
	s := strings.Trim(flexString(raw), " ")
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func flexInt(raw json.RawMessage) int {
	s := strings.Trim(flexString(raw), " ")
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	// Tolerate counts emitted as floats.
	return int(flexFloat(raw))
}

// Metadata is denormalized recipe metadata for query convenience.
type Metadata struct {
	// AuthorName is the name of the recipe author.
	AuthorName string `firestore:"authorName" json:"author_name"`

	// Time is the preparation time as display text.
	Time string `firestore:"time" json:"time"`

	// Category is the category of the dish.
	Category string `firestore:"category" json:"category"`
}

// Document is the per-source recipe document. One document exists per derived
// cache key and holds every language ever produced for the source; the
// translations map only grows.
type Document struct {
	// ID is the document ID, the cache key derived from SourceURL.
	ID string `firestore:"-" json:"id"`

	// SourceURL is the URL of the source video.
	SourceURL string `firestore:"sourceUrl" json:"source_url"`

	// CreatedAt is the time the document was created.
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp" json:"created_at"`

	// HeroImageURL is the URL of the main image of the recipe.
	HeroImageURL string `firestore:"heroImageUrl,omitempty" json:"hero_image_url,omitempty"`

	// Metadata is denormalized metadata from the base language recipe.
	Metadata Metadata `firestore:"metadata" json:"metadata"`

	// Rating is the aggregate user rating.
	Rating float64 `firestore:"rating" json:"rating"`

	// ReviewsCount is the number of ratings folded into Rating.
	ReviewsCount int `firestore:"reviewsCount" json:"reviews_count"`

	// Translations holds the recipe content per language code.
	Translations map[string]*Recipe `firestore:"translations" json:"translations"`
}

// Resolve returns the recipe content for language, falling back to the base
// language, then to any available language. Returns nil when the document
// holds no translations at all.
func (d *Document) Resolve(language string, baseLanguage string) *Recipe {
	if r := d.Translations[language]; r != nil {
		return r
	}
	if r := d.Translations[baseLanguage]; r != nil {
		return r
	}
	for _, r := range d.Translations {
		if r != nil {
			return r
		}
	}
	return nil
}
