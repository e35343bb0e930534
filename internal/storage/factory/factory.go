package factory

import (
	"context"
	"fmt"

	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/es"
	"github.com/inkpress/inkpress/internal/storage/pg"
)

// NewSearcher picks the full-text backend. Postgres searches its own
// tables; Elasticsearch reads the mirrored article index.
func NewSearcher(storageType storage.Type, store *pg.Store, esConfig es.ClientConfig) (storage.Searcher, error) {
	switch storageType {
	case storage.PG:
		return store, nil
	case storage.ES:
		return es.NewSearcher(esConfig)
	default:
		return nil, fmt.Errorf("unsupported search backend: %s", storageType)
	}
}

// NewIndexer returns the write-side mirror for the chosen backend.
func NewIndexer(ctx context.Context, storageType storage.Type, esConfig es.ClientConfig) (storage.Indexer, error) {
	switch storageType {
	case storage.PG:
		return pg.NoopIndexer{}, nil
	case storage.ES:
		return es.NewIndexer(ctx, esConfig)
	default:
		return nil, fmt.Errorf("unsupported search backend: %s", storageType)
	}
}
