package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/svatrous/instept-backend/internal/cachekey"
	"github.com/svatrous/instept-backend/internal/download"
	"github.com/svatrous/instept-backend/internal/recipedb"
)

// ErrNoBase is returned by TranslateCached when no recipe has been extracted
// for the source yet; the caller must analyze the source first.
var ErrNoBase = errors.New("pipeline: no cached recipe for source")

// Downloader fetches a source video to a local file.
type Downloader interface {
	Fetch(ctx context.Context, url string) (string, download.Metadata, error)
}

// Extractor produces a recipe draft from a downloaded video.
type Extractor interface {
	Extract(ctx context.Context, videoPath string, meta download.Metadata, sourceURL string) (*recipedb.Recipe, error)
}

// Illustrator decorates a recipe draft with generated imagery, returning
// notes for everything it had to skip.
type Illustrator interface {
	Illustrate(ctx context.Context, key string, recipe *recipedb.Recipe) []string
}

// Translator derives a recipe in a target language from a base recipe,
// returning the base unchanged when translation is unavailable.
type Translator interface {
	Translate(ctx context.Context, base *recipedb.Recipe, language string) *recipedb.Recipe
}

// Store persists recipe documents.
type Store interface {
	GetDocument(ctx context.Context, sourceURL string) (*recipedb.Document, error)
	SaveTranslation(ctx context.Context, recipe *recipedb.Recipe, sourceURL string, language string) (string, error)
}

// Notifier delivers the final outcome of a task to the requesting device.
type Notifier interface {
	Send(ctx context.Context, token string, title string, body string, data map[string]string) error
}

// Request is one analysis request.
type Request struct {
	SourceURL   string
	Language    string
	NotifyToken string
}

// Result is the outcome of a successful run.
type Result struct {
	RecipeID string
	Recipe   *recipedb.Recipe
	Degraded []string
}

// NewOrchestrator returns an Orchestrator composing the given collaborators.
// Extraction always produces baseLanguage; other languages are derived from
// it by translation.
func NewOrchestrator(store Store, downloader Downloader, extractor Extractor, illustrator Illustrator, translator Translator, notifier Notifier, baseLanguage string) *Orchestrator {
	return &Orchestrator{
		store:        store,
		downloader:   downloader,
		extractor:    extractor,
		illustrator:  illustrator,
		translator:   translator,
		notifier:     notifier,
		baseLanguage: baseLanguage,
	}
}

// Orchestrator runs the acquisition pipeline for one request at a time. It is
// safe for concurrent use; concurrent extractions of the same source collapse
// into one.
type Orchestrator struct {
	store        Store
	downloader   Downloader
	extractor    Extractor
	illustrator  Illustrator
	translator   Translator
	notifier     Notifier
	baseLanguage string

	inflight singleflight.Group
}

type baseResult struct {
	recipe   *recipedb.Recipe
	recipeID string
	degraded []string
}

// Process runs the pipeline for one request: cached languages are returned
// immediately, a cached base is translated without re-downloading, and only
// a full miss downloads and extracts. Fatal errors produce one failure
// notification and are returned; everything else degrades into the result.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Result, error) {
	key := cachekey.Derive(req.SourceURL)

	var degraded []string
	doc, err := o.store.GetDocument(ctx, req.SourceURL)
	if err != nil {
		slog.WarnContext(ctx, "pipeline: cache lookup failed, extracting fresh", "key", key, "error", err)
		degraded = append(degraded, fmt.Sprintf("cache lookup: %v", err))
		doc = nil
	}

	if doc != nil {
		if recipe := doc.Translations[req.Language]; recipe != nil {
			o.notifySuccess(ctx, req, recipe.Title, doc.ID)
			return &Result{RecipeID: doc.ID, Recipe: recipe, Degraded: degraded}, nil
		}
		if base := doc.Translations[o.baseLanguage]; base != nil {
			recipe, notes := o.translateAndPersist(ctx, base, req.SourceURL, req.Language)
			degraded = append(degraded, notes...)
			o.notifySuccess(ctx, req, recipe.Title, doc.ID)
			return &Result{RecipeID: doc.ID, Recipe: recipe, Degraded: degraded}, nil
		}
	}

	// Full miss. Concurrent requests for the same source share one
	// download and extraction.
	v, err, _ := o.inflight.Do(key, func() (any, error) {
		return o.extractBase(ctx, req.SourceURL, key)
	})
	if err != nil {
		o.notifyFailure(ctx, req, err)
		return nil, err
	}
	base := v.(*baseResult) //nolint:forcetypeassert
	degraded = append(degraded, base.degraded...)

	recipe := base.recipe
	if req.Language != o.baseLanguage {
		var notes []string
		recipe, notes = o.translateAndPersist(ctx, base.recipe, req.SourceURL, req.Language)
		degraded = append(degraded, notes...)
	}

	o.notifySuccess(ctx, req, recipe.Title, base.recipeID)
	return &Result{RecipeID: base.recipeID, Recipe: recipe, Degraded: degraded}, nil
}

// extractBase downloads and extracts the source, illustrates the draft, and
// persists it as the canonical base-language record. The temporary video file
// is removed on every path.
func (o *Orchestrator) extractBase(ctx context.Context, sourceURL string, key string) (*baseResult, error) {
	videoPath, meta, err := o.downloader.Fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(videoPath); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "pipeline: removing temporary video", "path", videoPath, "error", err)
		}
	}()

	recipe, err := o.extractor.Extract(ctx, videoPath, meta, sourceURL)
	if err != nil {
		return nil, err
	}

	degraded := o.illustrator.Illustrate(ctx, key, recipe)

	recipeID, err := o.store.SaveTranslation(ctx, recipe, sourceURL, o.baseLanguage)
	if err != nil {
		slog.WarnContext(ctx, "pipeline: persisting base recipe failed", "key", key, "error", err)
		degraded = append(degraded, fmt.Sprintf("persisting base recipe: %v", err))
		recipeID = key
	}

	return &baseResult{
		recipe:   recipe,
		recipeID: recipeID,
		degraded: degraded,
	}, nil
}

// translateAndPersist derives the requested language from base and stores it.
// A failed translation degrades to the base recipe; a failed save degrades to
// an uncached translation.
func (o *Orchestrator) translateAndPersist(ctx context.Context, base *recipedb.Recipe, sourceURL string, language string) (*recipedb.Recipe, []string) {
	if language == base.Language {
		return base, nil
	}
	recipe := o.translator.Translate(ctx, base, language)
	if recipe.Language != language {
		return recipe, []string{fmt.Sprintf("translation to %s unavailable, returning %s", language, recipe.Language)}
	}
	if _, err := o.store.SaveTranslation(ctx, recipe, sourceURL, language); err != nil {
		slog.WarnContext(ctx, "pipeline: persisting translation failed", "language", language, "error", err)
		return recipe, []string{fmt.Sprintf("persisting %s translation: %v", language, err)}
	}
	return recipe, nil
}

// TranslateCached synchronously returns the requested language for an
// already-analyzed source. Returns ErrNoBase when the source has never been
// extracted.
func (o *Orchestrator) TranslateCached(ctx context.Context, sourceURL string, language string) (*recipedb.Recipe, error) {
	doc, err := o.store.GetDocument(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrNoBase
	}
	if recipe := doc.Translations[language]; recipe != nil {
		return recipe, nil
	}
	base := doc.Resolve(language, o.baseLanguage)
	if base == nil {
		return nil, ErrNoBase
	}
	recipe, _ := o.translateAndPersist(ctx, base, sourceURL, language)
	return recipe, nil
}

func (o *Orchestrator) notifySuccess(ctx context.Context, req Request, title string, recipeID string) {
	if err := o.notifier.Send(ctx, req.NotifyToken, title, "Your recipe is ready", map[string]string{
		"type":      "recipe_ready",
		"recipe_id": recipeID,
	}); err != nil {
		slog.WarnContext(ctx, "pipeline: sending success notification", "error", err)
	}
}

func (o *Orchestrator) notifyFailure(ctx context.Context, req Request, cause error) {
	if err := o.notifier.Send(ctx, req.NotifyToken, "Recipe analysis failed", cause.Error(), map[string]string{
		"type":  "error",
		"error": cause.Error(),
	}); err != nil {
		slog.WarnContext(ctx, "pipeline: sending failure notification", "error", err)
	}
}
