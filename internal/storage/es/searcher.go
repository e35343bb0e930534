package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/operator"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/inkpress/inkpress/internal/storage"
)

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &Searcher{client: client, indexName: config.IndexName}, nil
}

// Search runs a boosted multi_match query with term filters, BM25 scored.
func (r *Searcher) Search(ctx context.Context, req storage.SearchRequest) (*storage.SearchResult, error) {
	boolQuery := &types.BoolQuery{}

	if req.Query != "" {
		or := operator.Or
		boolQuery.Must = append(boolQuery.Must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:    req.Query,
				Fields:   []string{"title^3", "excerpt^2", "keywords^2", "abstract", "content"},
				Operator: &or,
			},
		})
	}
	if req.Category != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{"category": {Value: req.Category}},
		})
	}
	if len(req.Tags) > 0 {
		tagValues := make([]types.FieldValue, len(req.Tags))
		for i, t := range req.Tags {
			tagValues[i] = types.FieldValue(t)
		}
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Terms: &types.TermsQuery{TermsQuery: map[string]types.TermsQueryField{"tags": tagValues}},
		})
	}
	if req.Author != "" {
		boolQuery.Must = append(boolQuery.Must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  req.Author,
				Fields: []string{"authorName", "authorEmail"},
			},
		})
	}
	if req.Premium != nil {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{"isPremium": {Value: *req.Premium}},
		})
	}
	if req.Featured != nil {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{"featured": {Value: *req.Featured}},
		})
	}
	if req.Language != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{"language": {Value: req.Language}},
		})
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		priceRange := types.NumberRangeQuery{}
		if req.MinPrice != nil {
			gte := types.Float64(*req.MinPrice)
			priceRange.Gte = &gte
		}
		if req.MaxPrice != nil {
			lte := types.Float64(*req.MaxPrice)
			priceRange.Lte = &lte
		}
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Range: map[string]types.RangeQuery{"price": priceRange},
		})
	}
	if req.DateFrom != nil || req.DateTo != nil {
		dateRange := types.DateRangeQuery{}
		if req.DateFrom != nil {
			from := req.DateFrom.Format("2006-01-02T15:04:05Z07:00")
			dateRange.Gte = &from
		}
		if req.DateTo != nil {
			to := req.DateTo.Format("2006-01-02T15:04:05Z07:00")
			dateRange.Lt = &to
		}
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Range: map[string]types.RangeQuery{"publishedAt": dateRange},
		})
	}

	from := (req.Page - 1) * req.Size
	search := r.client.Search().
		Index(r.indexName).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(req.Size).
		TrackScores(true)
	if sort := sortOption(req.SortBy); sort != nil {
		search = search.Sort(sort)
	}
	res, err := search.Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err, "query", req.Query)
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}

	result := &storage.SearchResult{}
	if res.Hits.Total != nil {
		result.TotalMatches = res.Hits.Total.Value
	}
	if res.Hits.MaxScore != nil {
		result.MaxScore = float64(*res.Hits.MaxScore)
	}

	for _, hit := range res.Hits.Hits {
		var doc ArticleDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		var score float64
		if hit.Score_ != nil {
			score = float64(*hit.Score_)
		}
		searchHit := storage.SearchHit{Article: doc.toDomain(), Score: score}
		if result.MaxScore > 0 {
			searchHit.ScoreNormalized = score / result.MaxScore
		}
		result.Hits = append(result.Hits, searchHit)
	}

	slog.Info("Es search results fetched",
		"total_matches", result.TotalMatches,
		"returned_count", len(result.Hits),
		"max_score", result.MaxScore)

	return result, nil
}

// sortOption maps a sort key onto an explicit field sort. Relevance (the
// default) returns nil and leaves BM25 score ordering in place.
func sortOption(sortBy string) types.SortCombinations {
	field := func(name string, order sortorder.SortOrder) types.SortCombinations {
		return types.SortOptions{SortOptions: map[string]types.FieldSort{
			name: {Order: &order},
		}}
	}

	switch sortBy {
	case storage.SortDate:
		return field("publishedAt", sortorder.Desc)
	case storage.SortPopularity:
		return field("views", sortorder.Desc)
	case storage.SortPriceAsc:
		return field("price", sortorder.Asc)
	case storage.SortPriceDesc:
		return field("price", sortorder.Desc)
	case storage.SortTitle:
		return field("title.keyword", sortorder.Asc)
	}
	return nil
}

var _ storage.Searcher = (*Searcher)(nil)
var _ storage.Indexer = (*Indexer)(nil)
