package es

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
)

// Indexer mirrors published articles into the search index.
type Indexer struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewIndexer(ctx context.Context, config ClientConfig) (*Indexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	indexer := &Indexer{client: client, indexName: config.IndexName}
	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return indexer, nil
}

func (e *Indexer) IndexArticle(ctx context.Context, article domain.Article) error {
	doc := mapToDocument(article)

	res, err := e.client.Index(e.indexName).Id(doc.ID).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	slog.Info("document indexed", "id", doc.ID, "index", e.indexName, "result", res.Result)
	return nil
}

func (e *Indexer) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	_, err := e.client.Delete(e.indexName, id.String()).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (e *Indexer) EnsureIndex(ctx context.Context) error {
	exists, err := e.client.Indices.Exists(e.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", e.indexName)
		return nil
	}

	mappings := buildMapping()
	createRes, err := e.client.Indices.Create(e.indexName).Mappings(mappings).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	if !createRes.Acknowledged {
		return fmt.Errorf("index creation was not acknowledged")
	}

	slog.Info("Index created", "index", e.indexName)
	return nil
}

func buildMapping() *types.TypeMapping {
	// title carries a keyword subfield so results can be sorted by it
	title := types.NewTextProperty()
	title.Fields = map[string]types.Property{"keyword": types.NewKeywordProperty()}

	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"id":          types.NewKeywordProperty(),
			"title":       title,
			"slug":        types.NewKeywordProperty(),
			"content":     types.NewTextProperty(),
			"excerpt":     types.NewTextProperty(),
			"abstract":    types.NewTextProperty(),
			"keywords":    types.NewTextProperty(),
			"category":    types.NewKeywordProperty(),
			"tags":        types.NewKeywordProperty(),
			"authorId":    types.NewKeywordProperty(),
			"authorName":  types.NewTextProperty(),
			"authorEmail": types.NewKeywordProperty(),
			"isPremium":   types.NewBooleanProperty(),
			"featured":    types.NewBooleanProperty(),
			"language":    types.NewKeywordProperty(),
			"price":       types.NewDoubleNumberProperty(),
			"views":       types.NewLongNumberProperty(),
			"publishedAt": types.NewDateProperty(),
		},
	}
}
