package recipedb

import "google.golang.org/genai"

var ingredientsSchema = &genai.Schema{
	Type:        "array",
	Description: "The ingredients of the recipe, in order.",
	Items: &genai.Schema{
		Type:        "object",
		Description: "An ingredient in the recipe.",
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        "string",
				Description: "The name of the ingredient.",
			},
			"amount": {
				Type:        "string",
				Description: "The quantity of the ingredient.",
			},
			"unit": {
				Type:        "string",
				Description: "The unit of measure of the quantity.",
			},
		},
		Required: []string{"name", "amount", "unit"},
	},
}

// RecipeSchema is the response schema for extracting a recipe from a video.
var RecipeSchema = &genai.Schema{
	Type:        "object",
	Description: "A recipe extracted from a cooking video.",
	Required:    []string{"title", "description", "ingredients", "steps"},
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        "string",
			Description: "The title of the recipe.",
		},
		"description": {
			Type:        "string",
			Description: "A short description of the recipe.",
		},
		"category": {
			Type:        "string",
			Description: "The category of the dish, e.g. Main dishes, Desserts.",
		},
		"time": {
			Type:        "string",
			Description: "The total preparation time, e.g. 30 min.",
		},
		"difficulty": {
			Type:        "string",
			Description: "The difficulty of the recipe, e.g. Easy, Medium, Hard.",
		},
		"calories": {
			Type:        "string",
			Description: "The approximate calories per serving.",
		},
		"ingredients": ingredientsSchema,
		"steps": {
			Type:        "array",
			Description: "The steps of the recipe, in order.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "A step in the recipe.",
				Properties: map[string]*genai.Schema{
					"description": {
						Type:        "string",
						Description: "The description of the step.",
					},
				},
				Required: []string{"description"},
			},
		},
	},
}

// TranslationSchema is the response schema for translating a recipe. Steps
// carry the id of the source step so imagery can be re-stitched even if the
// model reorders them.
var TranslationSchema = &genai.Schema{
	Type:        "object",
	Description: "A recipe translated into the target language.",
	Required:    []string{"title", "description", "ingredients", "steps"},
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        "string",
			Description: "The translated title of the recipe.",
		},
		"description": {
			Type:        "string",
			Description: "The translated description of the recipe.",
		},
		"category": {
			Type:        "string",
			Description: "The translated category of the dish.",
		},
		"time": {
			Type:        "string",
			Description: "The translated preparation time.",
		},
		"difficulty": {
			Type:        "string",
			Description: "The translated difficulty.",
		},
		"calories": {
			Type:        "string",
			Description: "The translated calories text.",
		},
		"ingredients": ingredientsSchema,
		"steps": {
			Type:        "array",
			Description: "The translated steps of the recipe.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "A translated step in the recipe.",
				Properties: map[string]*genai.Schema{
					"id": {
						Type:        "integer",
						Description: "The id of the step from the input, unchanged.",
					},
					"description": {
						Type:        "string",
						Description: "The translated description of the step.",
					},
				},
				Required: []string{"id", "description"},
			},
		},
	},
}
