package dto

import (
	"github.com/inkpress/inkpress/pkg/pagination"
)

// SearchQuery is the advanced-search parameter set. The query text is
// optional; category, tags, author, language, price and date bounds narrow
// the match on their own.
type SearchQuery struct {
	pagination.Request
	Query    string   `query:"q"`
	Category string   `query:"category"`
	Tags     string   `query:"tags"`
	Author   string   `query:"author"`
	Premium  *bool    `query:"premium"`
	Featured *bool    `query:"featured"`
	Language string   `query:"language"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	DateFrom string   `query:"dateFrom"`
	DateTo   string   `query:"dateTo"`
	SortBy   string   `query:"sortBy" validate:"omitempty,oneof=relevance date popularity price_asc price_desc title"`
}
