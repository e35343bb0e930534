package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/search"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	result *storage.SearchResult
	got    storage.SearchRequest
	calls  int
}

func (s *stubSearcher) Search(_ context.Context, req storage.SearchRequest) (*storage.SearchResult, error) {
	s.got = req
	s.calls++
	return s.result, nil
}

type stubStore struct {
	logged     []domain.SearchQueryLog
	titles     []domain.ArticleRef
	tags       []domain.Tag
	titleCalls int
	gotPrefix  string
	gotLimit   int
}

func (s *stubStore) LogSearchQuery(_ context.Context, log *domain.SearchQueryLog) error {
	s.logged = append(s.logged, *log)
	return nil
}

func (s *stubStore) SuggestTitles(_ context.Context, prefix string, limit int) ([]domain.ArticleRef, error) {
	s.titleCalls++
	s.gotPrefix = prefix
	s.gotLimit = limit
	return s.titles, nil
}

func (s *stubStore) SuggestTags(_ context.Context, _ string, _ int) ([]domain.Tag, error) {
	return s.tags, nil
}

func (s *stubStore) PopularSearches(_ context.Context, _ time.Time, _ int) ([]pg.PopularSearch, error) {
	return nil, nil
}

func TestSearch_LogsQueryWithResultCount(t *testing.T) {
	searcher := &stubSearcher{result: &storage.SearchResult{TotalMatches: 7}}
	store := &stubStore{}
	svc := search.NewService(searcher, store)

	premium := true
	result, err := svc.Search(context.Background(), storage.SearchRequest{
		Query:   "generics",
		Premium: &premium,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(7), result.TotalMatches)

	require.Len(t, store.logged, 1)
	assert.Equal(t, "generics", store.logged[0].Query)
	assert.Equal(t, 7, store.logged[0].Results)
	assert.JSONEq(t, `{"premium": true}`, store.logged[0].Filters)
}

func TestSearch_EmptyQueryBrowsesByFilters(t *testing.T) {
	searcher := &stubSearcher{result: &storage.SearchResult{TotalMatches: 3}}
	store := &stubStore{}
	svc := search.NewService(searcher, store)

	minPrice := 5.0
	result, err := svc.Search(context.Background(), storage.SearchRequest{
		Category: "science",
		MinPrice: &minPrice,
		SortBy:   storage.SortPriceAsc,
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), result.TotalMatches)
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, "science", searcher.got.Category)

	// filter-only browsing has no query text to record
	assert.Empty(t, store.logged)
}

func TestSuggest_ShortPrefixShortCircuits(t *testing.T) {
	store := &stubStore{titles: []domain.ArticleRef{{Title: "ignored"}}}
	svc := search.NewService(&stubSearcher{}, store)

	for _, prefix := range []string{"", "g", "  g  "} {
		got, err := svc.Suggest(context.Background(), prefix, 5)

		require.NoError(t, err)
		assert.Empty(t, got.Titles, "prefix %q", prefix)
		assert.Empty(t, got.Tags, "prefix %q", prefix)
	}
	assert.Zero(t, store.titleCalls)
}

func TestSuggest_ReturnsTitlesAndTags(t *testing.T) {
	store := &stubStore{
		titles: []domain.ArticleRef{{Title: "Go Generics"}},
		tags:   []domain.Tag{{Name: "golang", Slug: "golang"}},
	}
	svc := search.NewService(&stubSearcher{}, store)

	got, err := svc.Suggest(context.Background(), "go", 0)

	require.NoError(t, err)
	require.Len(t, got.Titles, 1)
	assert.Equal(t, "Go Generics", got.Titles[0].Title)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "golang", got.Tags[0].Slug)

	// a zero limit falls back to the per-group default
	assert.Equal(t, 5, store.gotLimit)
	assert.Equal(t, "go", store.gotPrefix)
}

func TestSuggest_NoMatchesMarshalsEmptyGroups(t *testing.T) {
	svc := search.NewService(&stubSearcher{}, &stubStore{})

	got, err := svc.Suggest(context.Background(), "zz", 5)

	require.NoError(t, err)
	assert.NotNil(t, got.Titles)
	assert.NotNil(t, got.Tags)
}
