package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateArticleVersion(ctx context.Context, v *domain.ArticleVersion) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.PublishedAt.IsZero() {
		v.PublishedAt = time.Now()
	}

	cmd := `
        INSERT INTO article_versions (id, article_id, version, content, changelog, published_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := s.db.Exec(ctx, cmd, v.ID, v.ArticleID, v.Version, v.Content, v.Changelog, v.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article version: %w", err)
	}
	return nil
}

func (s *Store) ArticleVersionByID(ctx context.Context, id uuid.UUID) (*domain.ArticleVersion, error) {
	var v domain.ArticleVersion
	err := s.db.QueryRow(ctx, `
        SELECT id, article_id, version, content, changelog, published_at
        FROM article_versions WHERE id = $1;
    `, id).Scan(&v.ID, &v.ArticleID, &v.Version, &v.Content, &v.Changelog, &v.PublishedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Version not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article version: %w", err)
	}
	return &v, nil
}

// VersionsByArticle lists snapshots newest first, content omitted.
func (s *Store) VersionsByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.ArticleVersion, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, version, changelog, published_at
        FROM article_versions WHERE article_id = $1
        ORDER BY published_at DESC;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article versions: %w", err)
	}
	defer rows.Close()

	var versions []domain.ArticleVersion
	for rows.Next() {
		var v domain.ArticleVersion
		err := rows.Scan(&v.ID, &v.ArticleID, &v.Version, &v.Changelog, &v.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *Store) CountArticleVersions(ctx context.Context, articleID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM article_versions WHERE article_id = $1;
    `, articleID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count article versions: %w", err)
	}
	return n, nil
}

// RestoreArticleVersion copies a snapshot's content back onto the article.
func (s *Store) RestoreArticleVersion(ctx context.Context, articleID, versionID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE articles a SET content = v.content, updated_at = now()
        FROM article_versions v
        WHERE a.id = $1 AND v.id = $2 AND v.article_id = a.id;
    `, articleID, versionID)
	if err != nil {
		return fmt.Errorf("failed to restore article version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Version not found")
	}
	return nil
}
