package related_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/related"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func article(title, keywords string, author uuid.UUID, tags ...string) domain.Article {
	a := domain.Article{
		ID:       uuid.New(),
		Title:    title,
		Keywords: keywords,
		AuthorID: author,
	}
	for _, t := range tags {
		a.Tags = append(a.Tags, domain.Tag{Name: t, Slug: t})
	}
	return a
}

func TestScore_SharedSignals(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	source := article("Deep learning fundamentals", "ai,neural-networks", author, "ml", "ai")

	t.Run("shared tag scores 3", func(t *testing.T) {
		c := article("Unrelated economics piece", "", other, "ml")
		assert.InDelta(t, 3.0, related.Score(source, c), 1e-9)
	})

	t.Run("shared keyword scores 2", func(t *testing.T) {
		c := article("Something else entirely", "ai", other)
		assert.InDelta(t, 2.0, related.Score(source, c), 1e-9)
	})

	t.Run("same author scores 1", func(t *testing.T) {
		c := article("Cooking with cast iron", "", author)
		assert.InDelta(t, 1.0, related.Score(source, c), 1e-9)
	})

	t.Run("shared long title word scores 1.5", func(t *testing.T) {
		c := article("Reinforcement learning basics", "", other)
		assert.InDelta(t, 1.5, related.Score(source, c), 1e-9)
	})

	t.Run("short title words do not count", func(t *testing.T) {
		// "the" and "for" are too short to register as overlap
		src := article("The tips for life", "", other)
		c := article("The best for now", "", uuid.New())
		assert.Zero(t, related.Score(src, c))
	})

	t.Run("signals accumulate", func(t *testing.T) {
		c := article("Deep learning in practice", "ai", author, "ai")
		// tag 3 + keyword 2 + author 1 + two title words (deep, learning) 3
		assert.InDelta(t, 9.0, related.Score(source, c), 1e-9)
	})
}

func TestRank_TopFiveExcludingSelf(t *testing.T) {
	author := uuid.New()
	source := article("Go concurrency patterns", "goroutines,channels", author, "go")

	candidates := []domain.Article{source}
	for i := 0; i < 8; i++ {
		candidates = append(candidates, article("Go concurrency explained", "goroutines", uuid.New(), "go"))
	}
	// zero-score candidate must be dropped
	candidates = append(candidates, article("Baking bread", "", uuid.New()))

	ranked := related.Rank(source, candidates)

	require.Len(t, ranked, related.MaxRelated)
	for _, r := range ranked {
		assert.Equal(t, source.ID, r.ArticleID)
		assert.NotEqual(t, source.ID, r.RelatedArticleID)
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestRank_OrderedByScoreDescending(t *testing.T) {
	author := uuid.New()
	source := article("Distributed systems primer", "consensus,raft", author, "distsys", "databases")

	strong := article("Distributed systems in depth", "consensus,raft", author, "distsys", "databases")
	medium := article("Databases overview", "consensus", uuid.New(), "databases")
	weak := article("A systems story", "", uuid.New())

	ranked := related.Rank(source, []domain.Article{weak, medium, strong})

	require.Len(t, ranked, 3)
	assert.Equal(t, strong.ID, ranked[0].RelatedArticleID)
	assert.Equal(t, medium.ID, ranked[1].RelatedArticleID)
	assert.Equal(t, weak.ID, ranked[2].RelatedArticleID)
	assert.True(t, ranked[0].Score >= ranked[1].Score && ranked[1].Score >= ranked[2].Score)
}
