// Package extract turns a downloaded cooking video into a structured recipe
// draft using the generative backend.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/svatrous/instept-backend/internal/download"
	"github.com/svatrous/instept-backend/internal/prompts"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

var (
	// ErrExtractionFailed indicates the backend reported a terminal failure
	// processing the video.
	ErrExtractionFailed = errors.New("extract: video processing failed")

	// ErrMalformedResponse indicates the backend returned a structure that
	// could not be parsed as a recipe.
	ErrMalformedResponse = errors.New("extract: malformed recipe response")
)

const placeholderAvatar = "https://storage.googleapis.com/instept-public/avatars/chef.png"

// NewExtractor returns an Extractor using model, polling file readiness every
// pollInterval, producing drafts in baseLanguage.
func NewExtractor(genAI *genai.Client, model string, pollInterval time.Duration, baseLanguage string) *Extractor {
	return &Extractor{
		genAI:        genAI,
		model:        model,
		pollInterval: pollInterval,
		baseLanguage: baseLanguage,
	}
}

type Extractor struct {
	genAI        *genai.Client
	model        string
	pollInterval time.Duration
	baseLanguage string
}

// Extract uploads the video at videoPath to the backend, waits for it to
// become ready, and requests a structured recipe. Fields the model omits are
// backfilled so downstream consumers never see absent required fields. The
// returned draft carries no imagery.
func (e *Extractor) Extract(ctx context.Context, videoPath string, meta download.Metadata, sourceURL string) (*recipedb.Recipe, error) {
	video, err := e.genAI.Files.UploadFromPath(ctx, videoPath, nil)
	if err != nil {
		return nil, fmt.Errorf("extract: uploading video: %w", err)
	}
	defer func() {
		// Best-effort release of the remote file on all paths.
		if _, err := e.genAI.Files.Delete(ctx, video.Name, nil); err != nil {
			slog.WarnContext(ctx, "extract: delete uploaded video", "file", video.Name, "error", err)
		}
	}()

	for video.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("extract: waiting for video processing: %w", ctx.Err())
		case <-time.After(e.pollInterval):
		}
		video, err = e.genAI.Files.Get(ctx, video.Name, nil)
		if err != nil {
			return nil, fmt.Errorf("extract: polling video state: %w", err)
		}
	}
	if video.State == genai.FileStateFailed {
		return nil, ErrExtractionFailed
	}

	res, err := e.genAI.Models.GenerateContent(ctx, e.model, []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(video.URI, video.MIMEType),
		}, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompts.ExtractRecipe(), genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    recipedb.RecipeSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: generating recipe content: %w", ErrExtractionFailed, err)
	}
	text := res.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: unexpected response from generate ai: %v", ErrMalformedResponse, res)
	}

	recipe, err := parseDraft(text)
	if err != nil {
		return nil, err
	}
	backfill(recipe, meta, sourceURL, e.baseLanguage)
	return recipe, nil
}

// parseDraft parses a model response into a recipe draft, stripping markdown
// code fences the backend is not contractually guaranteed to omit.
func parseDraft(text string) (*recipedb.Recipe, error) {
	var recipe recipedb.Recipe
	if err := json.Unmarshal([]byte(stripFences(text)), &recipe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &recipe, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// backfill populates fields the model may omit with defaults, preferring the
// video metadata for authorship.
func backfill(recipe *recipedb.Recipe, meta download.Metadata, sourceURL string, baseLanguage string) {
	recipe.SourceURL = sourceURL
	recipe.Language = baseLanguage
	recipe.CreatedAt = time.Now()

	if recipe.Rating == 0 {
		recipe.Rating = 4.0 + float64(rand.IntN(10))/10
	}
	if recipe.ReviewsCount == 0 {
		recipe.ReviewsCount = 50 + rand.IntN(451)
	}
	if recipe.LikesCount == 0 {
		recipe.LikesCount = 100 + rand.IntN(9901)
	}
	if recipe.AuthorName == "" {
		recipe.AuthorName = meta.AuthorName
	}
	if recipe.AuthorName == "" {
		recipe.AuthorName = "Instept Chef"
	}
	if recipe.AuthorAvatar == "" {
		recipe.AuthorAvatar = placeholderAvatar
	}
	if recipe.Category == "" {
		recipe.Category = "Main dishes"
	}
	if recipe.Time == "" {
		recipe.Time = "30 min"
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = "Medium"
	}
	if recipe.Calories == "" {
		recipe.Calories = "350 kcal"
	}
	if recipe.Title == "" {
		recipe.Title = meta.Title
	}
	if recipe.Description == "" {
		recipe.Description = meta.Description
	}
}
