package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
)

type Type string

const (
	PG Type = "pg"
	ES Type = "es"
)

// Sort orders accepted by SearchRequest.SortBy. Relevance is the default;
// without a query text every hit scores zero and relevance degrades to
// newest-first.
const (
	SortRelevance  = "relevance"
	SortDate       = "date"
	SortPopularity = "popularity"
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortTitle      = "title"
)

// SearchRequest is the advanced-search parameter set shared by both
// backends. Only PUBLISHED articles are searched. Query may be empty, in
// which case the filters alone select the result set.
type SearchRequest struct {
	Query    string
	Category string
	Tags     []string
	Author   string
	Premium  *bool
	Featured *bool
	Language string
	MinPrice *float64
	MaxPrice *float64
	DateFrom *time.Time
	DateTo   *time.Time
	SortBy   string
	Page     int
	Size     int
}

type SearchHit struct {
	Article         domain.Article `json:"article"`
	Score           float64        `json:"score"`
	ScoreNormalized float64        `json:"scoreNormalized,omitempty"`
}

type SearchResult struct {
	Hits         []SearchHit `json:"hits"`
	TotalMatches int64       `json:"totalMatches"`
	MaxScore     float64     `json:"maxScore"`
}

// Searcher is the full-text backend behind the search endpoints.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// Indexer mirrors article writes into the search backend. The Postgres
// backend searches its own tables, so its indexer is a no-op.
type Indexer interface {
	IndexArticle(ctx context.Context, article domain.Article) error
	DeleteArticle(ctx context.Context, id uuid.UUID) error
}
