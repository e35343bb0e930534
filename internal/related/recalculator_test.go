package related_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/related"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelatedStore struct {
	articles map[uuid.UUID]domain.Article
	corpus   []domain.Article
	cache    map[uuid.UUID][]domain.RelatedArticle
}

func newFakeRelatedStore(corpus ...domain.Article) *fakeRelatedStore {
	s := &fakeRelatedStore{
		articles: map[uuid.UUID]domain.Article{},
		corpus:   corpus,
		cache:    map[uuid.UUID][]domain.RelatedArticle{},
	}
	for _, a := range corpus {
		s.articles[a.ID] = a
	}
	return s
}

func (s *fakeRelatedStore) ArticleForScoring(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	a, ok := s.articles[id]
	if !ok {
		return nil, apperr.NewNotFound("Article not found")
	}
	return &a, nil
}

func (s *fakeRelatedStore) PublishedArticlesForScoring(context.Context) ([]domain.Article, error) {
	var published []domain.Article
	for _, a := range s.corpus {
		if a.Status == domain.StatusPublished {
			published = append(published, a)
		}
	}
	return published, nil
}

func (s *fakeRelatedStore) ReplaceRelatedArticles(_ context.Context, articleID uuid.UUID, entries []domain.RelatedArticle) error {
	s.cache[articleID] = entries
	return nil
}

func (s *fakeRelatedStore) RelatedArticlesFor(_ context.Context, articleID uuid.UUID, limit int) ([]domain.RelatedArticle, error) {
	entries := s.cache[articleID]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func TestRecalculate_DraftSourceScoresAgainstPublished(t *testing.T) {
	author := uuid.New()
	draft := article("Go Concurrency Patterns", "go, channels", author, "golang")
	draft.Status = domain.StatusDraft
	published := article("Go Channels in Depth", "go, channels", author, "golang")
	published.Status = domain.StatusPublished

	store := newFakeRelatedStore(draft, published)
	rec := related.NewRecalculator(store)

	require.NoError(t, rec.Recalculate(context.Background(), draft.ID))

	entries := store.cache[draft.ID]
	require.Len(t, entries, 1)
	assert.Equal(t, published.ID, entries[0].RelatedArticleID)
}

func TestRecalculate_MissingArticleNotFound(t *testing.T) {
	rec := related.NewRecalculator(newFakeRelatedStore())

	err := rec.Recalculate(context.Background(), uuid.New())

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestSuggestions_ColdCacheComputesOnTheSpot(t *testing.T) {
	author := uuid.New()
	source := article("Testing in Go", "go, testing", author, "golang")
	source.Status = domain.StatusPublished
	other := article("Go Testing Tricks", "go, testing", author, "golang")
	other.Status = domain.StatusPublished

	store := newFakeRelatedStore(source, other)
	rec := related.NewRecalculator(store)

	entries, err := rec.Suggestions(context.Background(), source.ID, related.MaxRelated)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, other.ID, entries[0].RelatedArticleID)
	assert.NotEmpty(t, store.cache[source.ID], "expected the computed set to be cached")
}

func TestSuggestions_NoNeighboursReturnsEmptySlice(t *testing.T) {
	lone := article("Standalone Essay", "", uuid.New())
	lone.Status = domain.StatusPublished

	rec := related.NewRecalculator(newFakeRelatedStore(lone))

	entries, err := rec.Suggestions(context.Background(), lone.ID, related.MaxRelated)

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestSuggestions_MissingArticleNotFound(t *testing.T) {
	rec := related.NewRecalculator(newFakeRelatedStore())

	_, err := rec.Suggestions(context.Background(), uuid.New(), related.MaxRelated)

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}
