package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/router"
	"github.com/inkpress/inkpress/internal/search"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSearcher struct {
	result *storage.SearchResult
	got    storage.SearchRequest
}

func (s *fixedSearcher) Search(_ context.Context, req storage.SearchRequest) (*storage.SearchResult, error) {
	s.got = req
	return s.result, nil
}

type noopSearchStore struct{}

func (noopSearchStore) LogSearchQuery(context.Context, *domain.SearchQueryLog) error {
	return nil
}

func (noopSearchStore) SuggestTitles(context.Context, string, int) ([]domain.ArticleRef, error) {
	return nil, nil
}

func (noopSearchStore) SuggestTags(context.Context, string, int) ([]domain.Tag, error) {
	return nil, nil
}

func (noopSearchStore) PopularSearches(context.Context, time.Time, int) ([]pg.PopularSearch, error) {
	return nil, nil
}

type noUserLoader struct{}

func (noUserLoader) UserByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, apperr.NewNotFound("User not found")
}

func newSearchServer(searcher storage.Searcher) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	svc := search.NewService(searcher, noopSearchStore{})
	router.NewSearchRouter(e, svc, auth.NewTokenManager("test-secret"), noUserLoader{}).Bind()
	return e
}

func TestSearchEndpoint_NoMatchesReturnsEmptyArticleArray(t *testing.T) {
	e := newSearchServer(&fixedSearcher{result: &storage.SearchResult{}})

	req := httptest.NewRequest(http.MethodGet, "/api/search?category=golang", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"articles":[]`)

	var body struct {
		TotalMatches int64 `json:"totalMatches"`
		Pagination   struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Zero(t, body.TotalMatches)
	assert.Equal(t, 1, body.Pagination.Page)
	assert.Equal(t, 20, body.Pagination.Limit)
	assert.Zero(t, body.Pagination.Total)
}

func TestSearchEndpoint_FilterOnlyRequestIsAccepted(t *testing.T) {
	searcher := &fixedSearcher{result: &storage.SearchResult{TotalMatches: 2, Hits: []storage.SearchHit{
		{Article: domain.Article{Title: "A"}},
		{Article: domain.Article{Title: "B"}},
	}}}
	e := newSearchServer(searcher)

	target := "/api/search?featured=true&language=en&minPrice=1.5&maxPrice=20&sortBy=price_asc"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, searcher.got.Query)
	require.NotNil(t, searcher.got.Featured)
	assert.True(t, *searcher.got.Featured)
	assert.Equal(t, "en", searcher.got.Language)
	require.NotNil(t, searcher.got.MinPrice)
	assert.Equal(t, 1.5, *searcher.got.MinPrice)
	require.NotNil(t, searcher.got.MaxPrice)
	assert.Equal(t, 20.0, *searcher.got.MaxPrice)
	assert.Equal(t, storage.SortPriceAsc, searcher.got.SortBy)
}

func TestSearchEndpoint_RejectsUnknownSortOrder(t *testing.T) {
	e := newSearchServer(&fixedSearcher{result: &storage.SearchResult{}})

	req := httptest.NewRequest(http.MethodGet, "/api/search?sortBy=sideways", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
