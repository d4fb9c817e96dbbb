package recipedb

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/svatrous/instept-backend/internal/cachekey"
)

// ErrUnavailable is returned when the store was constructed without a
// Firestore client, typically because credentials were missing at startup.
// Callers degrade to extracting fresh rather than failing.
var ErrUnavailable = errors.New("recipedb: store unavailable")

// RatingSummary is the aggregate rating of a document after an update.
type RatingSummary struct {
	RecipeID     string  `json:"recipe_id"`
	Rating       float64 `json:"rating"`
	ReviewsCount int     `json:"reviews_count"`
}

// NewStore returns a Store over the given collection. The client may be nil,
// in which case every operation reports ErrUnavailable.
func NewStore(client *firestore.Client, collection string) *Store {
	return &Store{
		client:     client,
		collection: collection,
	}
}

// Store reads and writes recipe documents.
type Store struct {
	client     *firestore.Client
	collection string
}

// GetDocument returns the document for a source URL, or nil when none exists.
func (s *Store) GetDocument(ctx context.Context, sourceURL string) (*Document, error) {
	return s.GetDocumentByID(ctx, cachekey.Derive(sourceURL))
}

// GetDocumentByID returns the document with the given ID, or nil when none
// exists.
func (s *Store) GetDocumentByID(ctx context.Context, id string) (*Document, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("recipedb: getting document %s: %w", id, err)
	}
	var doc Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("recipedb: unmarshalling document %s: %w", id, err)
	}
	doc.ID = id
	return &doc, nil
}

// SaveTranslation stores one language of a recipe. It creates the document for
// the source URL if none exists, seeding the denormalized metadata from the
// recipe, and otherwise merges only translations.<language> so sibling
// languages are never disturbed. Returns the document ID.
func (s *Store) SaveTranslation(ctx context.Context, recipe *Recipe, sourceURL string, language string) (string, error) {
	if s.client == nil {
		return "", ErrUnavailable
	}

	id := cachekey.Derive(sourceURL)
	ref := s.client.Collection(s.collection).Doc(id)
	recipe.ID = id
	recipe.SourceURL = sourceURL

	snap, err := ref.Get(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return "", fmt.Errorf("recipedb: getting document %s: %w", id, err)
	}
	if snap.Exists() {
		if _, err := ref.Set(ctx, translationMerge(recipe, language), firestore.MergeAll); err != nil {
			return "", fmt.Errorf("recipedb: merging translation %s into %s: %w", language, id, err)
		}
		return id, nil
	}

	if _, err := ref.Set(ctx, newDocument(recipe, sourceURL, language)); err != nil {
		return "", fmt.Errorf("recipedb: creating document %s: %w", id, err)
	}
	return id, nil
}

// translationMerge is the merge payload for adding one language to an
// existing document. Only the language key is written so concurrent saves of
// different languages cannot clobber each other.
func translationMerge(recipe *Recipe, language string) map[string]any {
	return map[string]any{
		"translations": map[string]any{
			language: recipe,
		},
	}
}

func newDocument(recipe *Recipe, sourceURL string, language string) *Document {
	return &Document{
		SourceURL:    sourceURL,
		HeroImageURL: recipe.HeroImageURL,
		Metadata: Metadata{
			AuthorName: recipe.AuthorName,
			Time:       recipe.Time,
			Category:   recipe.Category,
		},
		Rating:       recipe.Rating,
		ReviewsCount: recipe.ReviewsCount,
		Translations: map[string]*Recipe{
			language: recipe,
		},
	}
}

// UpdateRating folds a new user rating into the document's aggregate as a
// running mean and increments the review count, transactionally. Returns nil
// when no document has the given ID.
func (s *Store) UpdateRating(ctx context.Context, id string, rating int) (*RatingSummary, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	ref := s.client.Collection(s.collection).Doc(id)
	var summary *RatingSummary
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var doc Document
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("unmarshalling document: %w", err)
		}
		newRating, newCount := foldRating(doc.Rating, doc.ReviewsCount, rating)
		summary = &RatingSummary{
			RecipeID:     id,
			Rating:       newRating,
			ReviewsCount: newCount,
		}
		return tx.Set(ref, map[string]any{
			"rating":       newRating,
			"reviewsCount": newCount,
		}, firestore.MergeAll)
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("recipedb: updating rating of %s: %w", id, err)
	}
	return summary, nil
}

// foldRating returns the running mean after adding one rating.
func foldRating(rating float64, count int, added int) (float64, int) {
	newCount := count + 1
	return (rating*float64(count) + float64(added)) / float64(newCount), newCount
}

// ListDocuments returns a page of documents ordered by document ID, starting
// after afterID when non-empty.
func (s *Store) ListDocuments(ctx context.Context, afterID string, limit int) ([]*Document, error) {
	if s.client == nil {
		return nil, ErrUnavailable
	}

	q := s.client.Collection(s.collection).Query
	if afterID != "" {
		q = q.Where(firestore.DocumentID, ">", s.client.Collection(s.collection).Doc(afterID))
	}
	q = q.OrderBy(firestore.DocumentID, firestore.Asc).Limit(limit)
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("recipedb: listing documents: %w", err)
	}

	docs := make([]*Document, len(snaps))
	for i, snap := range snaps {
		var doc Document
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("recipedb: unmarshalling document %s: %w", snap.Ref.ID, err)
		}
		doc.ID = snap.Ref.ID
		docs[i] = &doc
	}
	return docs, nil
}
