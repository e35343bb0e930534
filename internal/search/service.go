// Package search fronts the configured search backend and keeps the query
// log that feeds the popular-searches dashboard.
package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/pg"
)

// minSuggestPrefixLen is the shortest prefix worth completing.
const minSuggestPrefixLen = 2

// defaultSuggestLimit caps each suggestion group.
const defaultSuggestLimit = 5

type Store interface {
	LogSearchQuery(ctx context.Context, log *domain.SearchQueryLog) error
	SuggestTitles(ctx context.Context, prefix string, limit int) ([]domain.ArticleRef, error)
	SuggestTags(ctx context.Context, prefix string, limit int) ([]domain.Tag, error)
	PopularSearches(ctx context.Context, since time.Time, limit int) ([]pg.PopularSearch, error)
}

type Service struct {
	searcher storage.Searcher
	store    Store
}

func NewService(searcher storage.Searcher, store Store) *Service {
	return &Service{searcher: searcher, store: store}
}

// Search runs the request against the active backend. An empty query text is
// fine: the filters alone select the result set. Query logging is
// best-effort and only covers requests that carried a query text; a failed
// log never fails the search.
func (s *Service) Search(ctx context.Context, req storage.SearchRequest, userID *uuid.UUID) (*storage.SearchResult, error) {
	result, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Query != "" {
		entry := &domain.SearchQueryLog{
			Query:   req.Query,
			Filters: encodeFilters(req),
			Results: int(result.TotalMatches),
			UserID:  userID,
		}
		if err := s.store.LogSearchQuery(ctx, entry); err != nil {
			slog.Error("Failed to log search query", "query", req.Query, "error", err)
		}
	}

	return result, nil
}

// Suggestions groups search-box completions. Both slices are always
// non-nil.
type Suggestions struct {
	Titles []domain.ArticleRef `json:"titles"`
	Tags   []domain.Tag        `json:"tags"`
}

// Suggest completes a prefix against published article titles and tag
// names. Prefixes shorter than two characters return empty groups.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) (*Suggestions, error) {
	suggestions := &Suggestions{
		Titles: []domain.ArticleRef{},
		Tags:   []domain.Tag{},
	}

	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minSuggestPrefixLen {
		return suggestions, nil
	}
	if limit <= 0 || limit > 10 {
		limit = defaultSuggestLimit
	}

	titles, err := s.store.SuggestTitles(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}
	tags, err := s.store.SuggestTags(ctx, prefix, limit)
	if err != nil {
		return nil, err
	}

	if titles != nil {
		suggestions.Titles = titles
	}
	if tags != nil {
		suggestions.Tags = tags
	}
	return suggestions, nil
}

// Popular returns the most frequent queries of the past 30 days.
func (s *Service) Popular(ctx context.Context, limit int) ([]pg.PopularSearch, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	return s.store.PopularSearches(ctx, since, limit)
}

func encodeFilters(req storage.SearchRequest) string {
	filters := map[string]any{}
	if req.Category != "" {
		filters["category"] = req.Category
	}
	if len(req.Tags) > 0 {
		filters["tags"] = req.Tags
	}
	if req.Author != "" {
		filters["author"] = req.Author
	}
	if req.Premium != nil {
		filters["premium"] = *req.Premium
	}
	if req.Featured != nil {
		filters["featured"] = *req.Featured
	}
	if req.Language != "" {
		filters["language"] = req.Language
	}
	if req.MinPrice != nil {
		filters["minPrice"] = *req.MinPrice
	}
	if req.MaxPrice != nil {
		filters["maxPrice"] = *req.MaxPrice
	}
	if req.DateFrom != nil {
		filters["dateFrom"] = req.DateFrom.Format(time.RFC3339)
	}
	if req.DateTo != nil {
		filters["dateTo"] = req.DateTo.Format(time.RFC3339)
	}
	if len(filters) == 0 {
		return ""
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return string(raw)
}
