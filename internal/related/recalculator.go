package related

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
)

type Store interface {
	ArticleForScoring(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	PublishedArticlesForScoring(ctx context.Context) ([]domain.Article, error)
	ReplaceRelatedArticles(ctx context.Context, articleID uuid.UUID, entries []domain.RelatedArticle) error
	RelatedArticlesFor(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.RelatedArticle, error)
}

// Recalculator rebuilds the cached suggestion sets from the published
// corpus.
type Recalculator struct {
	store Store
}

func NewRecalculator(store Store) *Recalculator {
	return &Recalculator{store: store}
}

// Suggestions returns the cached set for an article, computing and caching
// it on the spot when empty. The slice is never nil.
func (r *Recalculator) Suggestions(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.RelatedArticle, error) {
	entries, err := r.store.RelatedArticlesFor(ctx, articleID, limit)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		if err := r.Recalculate(ctx, articleID); err != nil {
			return nil, err
		}
		if entries, err = r.store.RelatedArticlesFor(ctx, articleID, limit); err != nil {
			return nil, err
		}
	}
	if entries == nil {
		entries = []domain.RelatedArticle{}
	}
	return entries, nil
}

// Recalculate rescores one article against the published corpus and
// replaces its cache. The source itself may be in any lifecycle state, so
// drafts get suggestions ready before they go live.
func (r *Recalculator) Recalculate(ctx context.Context, articleID uuid.UUID) error {
	source, err := r.store.ArticleForScoring(ctx, articleID)
	if err != nil {
		return err
	}

	corpus, err := r.store.PublishedArticlesForScoring(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scoring corpus: %w", err)
	}

	entries := Rank(*source, corpus)
	if err := r.store.ReplaceRelatedArticles(ctx, articleID, entries); err != nil {
		return fmt.Errorf("failed to store related articles: %w", err)
	}

	slog.Info("Related articles recalculated", "article_id", articleID, "count", len(entries))
	return nil
}

// RecalculateAll rescores the whole corpus, continuing past individual
// failures.
func (r *Recalculator) RecalculateAll(ctx context.Context) error {
	corpus, err := r.store.PublishedArticlesForScoring(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scoring corpus: %w", err)
	}

	var failed int
	for _, source := range corpus {
		entries := Rank(source, corpus)
		if err := r.store.ReplaceRelatedArticles(ctx, source.ID, entries); err != nil {
			slog.Error("Failed to store related articles", "article_id", source.ID, "error", err)
			failed++
		}
	}

	slog.Info("Related articles recalculated for corpus", "articles", len(corpus), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("failed to recalculate %d of %d articles", failed, len(corpus))
	}
	return nil
}
