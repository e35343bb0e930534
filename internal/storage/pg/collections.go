package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateCollection(ctx context.Context, collection *domain.Collection) error {
	if collection.ID == uuid.Nil {
		collection.ID = uuid.New()
	}
	now := time.Now()
	collection.CreatedAt = now
	collection.UpdatedAt = now

	cmd := `
        INSERT INTO collections (id, title, slug, description, cover_image, "order", created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := s.db.Exec(ctx, cmd,
		collection.ID, collection.Title, collection.Slug, collection.Description,
		collection.CoverImage, collection.Order, collection.CreatedAt, collection.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflict("Collection slug already exists")
		}
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	return nil
}

func (s *Store) CollectionByID(ctx context.Context, id uuid.UUID) (*domain.Collection, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, title, slug, description, cover_image, "order", created_at, updated_at
        FROM collections WHERE id = $1;
    `, id)
	collection, err := scanCollection(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachCollectionArticles(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *Store) CollectionBySlug(ctx context.Context, slug string) (*domain.Collection, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, title, slug, description, cover_image, "order", created_at, updated_at
        FROM collections WHERE slug = $1;
    `, slug)
	collection, err := scanCollection(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachCollectionArticles(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (s *Store) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, title, slug, description, cover_image, "order", created_at, updated_at
        FROM collections ORDER BY "order" ASC, created_at DESC;
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, *c)
	}
	return collections, rows.Err()
}

func (s *Store) UpdateCollection(ctx context.Context, id uuid.UUID, title, description, coverImage *string, order *int) error {
	q := s.qb.Update("collections").Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id})
	if title != nil {
		q = q.Set("title", *title)
	}
	if description != nil {
		q = q.Set("description", *description)
	}
	if coverImage != nil {
		q = q.Set("cover_image", *coverImage)
	}
	if order != nil {
		q = q.Set(`"order"`, *order)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Collection not found")
	}
	return nil
}

func (s *Store) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM collections WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Collection not found")
	}
	return nil
}

func (s *Store) AddArticleToCollection(ctx context.Context, collectionID, articleID uuid.UUID, order int) error {
	tag, err := s.db.Exec(ctx, `
        INSERT INTO collection_articles (collection_id, article_id, "order")
        VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING;
    `, collectionID, articleID, order)
	if err != nil {
		return fmt.Errorf("failed to add article to collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("Article already in collection")
	}
	return nil
}

func (s *Store) RemoveArticleFromCollection(ctx context.Context, collectionID, articleID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM collection_articles WHERE collection_id = $1 AND article_id = $2;
    `, collectionID, articleID)
	if err != nil {
		return fmt.Errorf("failed to remove article from collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Article not in collection")
	}
	return nil
}

// ReorderCollection rewrites the order column to match the given id sequence.
func (s *Store) ReorderCollection(ctx context.Context, collectionID uuid.UUID, articleIDs []uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, articleID := range articleIDs {
		_, err := tx.Exec(ctx, `
            UPDATE collection_articles SET "order" = $3
            WHERE collection_id = $1 AND article_id = $2;
        `, collectionID, articleID, i)
		if err != nil {
			return fmt.Errorf("failed to reorder collection: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) attachCollectionArticles(ctx context.Context, collection *domain.Collection) error {
	rows, err := s.db.Query(ctx, `
        SELECT ca.collection_id, ca.article_id, ca."order", ca.added_at,
               a.id, a.title, a.slug, a.excerpt, a.cover_image
        FROM collection_articles ca JOIN articles a ON a.id = ca.article_id
        WHERE ca.collection_id = $1
        ORDER BY ca."order" ASC, ca.added_at ASC;
    `, collection.ID)
	if err != nil {
		return fmt.Errorf("failed to query collection articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca domain.CollectionArticle
		var ref domain.ArticleRef
		err := rows.Scan(
			&ca.CollectionID, &ca.ArticleID, &ca.Order, &ca.AddedAt,
			&ref.ID, &ref.Title, &ref.Slug, &ref.Excerpt, &ref.CoverImage,
		)
		if err != nil {
			return fmt.Errorf("failed to scan collection article: %w", err)
		}
		ca.Article = &ref
		collection.Articles = append(collection.Articles, ca)
	}
	return rows.Err()
}

func scanCollection(row pgx.Row) (*domain.Collection, error) {
	var c domain.Collection
	err := row.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.CoverImage, &c.Order,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Collection not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}
	return &c, nil
}
