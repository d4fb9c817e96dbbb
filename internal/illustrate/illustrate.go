// Package illustrate generates step and hero imagery for a recipe draft.
package illustrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"google.golang.org/genai"

	"github.com/svatrous/instept-backend/internal/prompts"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

var errNoImage = errors.New("illustrate: no image in response")

// imageModel issues one image generation call, optionally with reference
// images for visual consistency.
type imageModel interface {
	generate(ctx context.Context, instruction string, refs []*genai.Blob) (*genai.Blob, error)
}

// uploader persists a generated image and returns its public URL, or an empty
// URL when storage is unconfigured.
type uploader interface {
	WriteGenAIImage(ctx context.Context, path string, blob *genai.Blob) (string, error)
}

// NewGenerator returns a Generator using the genai image model. Each
// generation call is attempted at most attempts times with linear backoff of
// baseDelay, and up to contextWindow previously generated images are attached
// as visual context.
func NewGenerator(genAI *genai.Client, images uploader, model string, attempts int, baseDelay time.Duration, contextWindow int) *Generator {
	return &Generator{
		model:         &genaiImageModel{client: genAI, model: model},
		images:        images,
		attempts:      attempts,
		baseDelay:     baseDelay,
		contextWindow: contextWindow,
	}
}

type Generator struct {
	model         imageModel
	images        uploader
	attempts      int
	baseDelay     time.Duration
	contextWindow int
}

// Illustrate generates an image for each step of the recipe in order, then a
// hero image of the finished dish, persisting accepted results and setting
// the image URLs on the recipe. A failed step never aborts the run; the
// returned notes describe everything that was skipped.
func (g *Generator) Illustrate(ctx context.Context, key string, recipe *recipedb.Recipe) []string {
	var notes []string
	var generated []*genai.Blob

	for i := range recipe.Steps {
		step := &recipe.Steps[i]
		blob, err := g.generateWithRetry(ctx, prompts.StepImage(recipe.Title, step.Description), generated)
		if err != nil {
			slog.WarnContext(ctx, "illustrate: step image generation failed", "step", i+1, "error", err)
			notes = append(notes, fmt.Sprintf("step %d image: %v", i+1, err))
			continue
		}
		generated = append(generated, blob)

		url, err := g.images.WriteGenAIImage(ctx, fmt.Sprintf("recipes/%s/step-%03d.png", key, i), blob)
		if err != nil {
			slog.WarnContext(ctx, "illustrate: step image upload failed", "step", i+1, "error", err)
			notes = append(notes, fmt.Sprintf("step %d image upload: %v", i+1, err))
			continue
		}
		if url == "" {
			notes = append(notes, fmt.Sprintf("step %d image: storage unconfigured", i+1))
			continue
		}
		step.ImageURL = url
	}

	if url, err := g.illustrateHero(ctx, key, recipe, generated); err != nil {
		slog.WarnContext(ctx, "illustrate: hero image generation failed", "error", err)
		notes = append(notes, fmt.Sprintf("hero image: %v", err))
	} else if url != "" {
		recipe.HeroImageURL = url
	}
	if recipe.HeroImageURL == "" {
		// Fall back to the earliest step image. Neither present is a valid
		// end state.
		for _, step := range recipe.Steps {
			if step.ImageURL != "" {
				recipe.HeroImageURL = step.ImageURL
				break
			}
		}
	}

	return notes
}

func (g *Generator) illustrateHero(ctx context.Context, key string, recipe *recipedb.Recipe, generated []*genai.Blob) (string, error) {
	blob, err := g.generateWithRetry(ctx, prompts.HeroImage(recipe.Title), generated)
	if err != nil {
		return "", err
	}
	url, err := g.images.WriteGenAIImage(ctx, fmt.Sprintf("recipes/%s/hero.png", key), blob)
	if err != nil {
		return "", err
	}
	return url, nil
}

// generateWithRetry calls the image model with a bounded retry policy: only
// transient failures are retried, sleeping attempt*baseDelay in between.
func (g *Generator) generateWithRetry(ctx context.Context, instruction string, generated []*genai.Blob) (*genai.Blob, error) {
	refs := generated
	if len(refs) > g.contextWindow {
		refs = refs[len(refs)-g.contextWindow:]
	}

	return backoff.Retry(ctx, func() (*genai.Blob, error) {
		blob, err := g.model.generate(ctx, instruction, refs)
		if err != nil {
			if !transient(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return blob, nil
	}, backoff.WithBackOff(&linearBackOff{base: g.baseDelay}), backoff.WithMaxTries(uint(g.attempts))) //nolint:gosec
}

// transient reports whether the backend failure is rate-limiting or service
// unavailability, the only classes worth retrying.
func transient(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 429 || apiErr.Code >= 500
}

// linearBackOff sleeps attempt*base before each retry.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.base
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}

type genaiImageModel struct {
	client *genai.Client
	model  string
}

func (m *genaiImageModel) generate(ctx context.Context, instruction string, refs []*genai.Blob) (*genai.Blob, error) {
	parts := make([]*genai.Part, 0, len(refs)+1)
	for _, ref := range refs {
		parts = append(parts, genai.NewPartFromBytes(ref.Data, ref.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(instruction))

	res, err := m.client.Models.GenerateContent(ctx, m.model, []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	})
	if err != nil {
		return nil, fmt.Errorf("illustrate: generate ai image: %w", err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return nil, errNoImage
	}
	for _, part := range res.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			return part.InlineData, nil
		}
	}
	return nil, errNoImage
}
