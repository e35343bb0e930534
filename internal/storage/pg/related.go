package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

// PublishedArticlesForScoring loads the published corpus with tags attached,
// which is the candidate set for relatedness scoring.
func (s *Store) PublishedArticlesForScoring(ctx context.Context) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+articleColumns+`
        FROM articles a JOIN users u ON u.id = a.author_id
        WHERE a.status = 'PUBLISHED'
        ORDER BY a.published_at DESC;
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring corpus: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachTagsBulk(ctx, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// ArticleForScoring loads one article with tags attached as a scoring
// source, whatever its lifecycle state.
func (s *Store) ArticleForScoring(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+articleColumns+`
        FROM articles a JOIN users u ON u.id = a.author_id
        WHERE a.id = $1;
    `, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query scoring source: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return nil, apperr.NewNotFound("Article not found")
	}
	if err := s.attachTagsBulk(ctx, articles); err != nil {
		return nil, err
	}
	return &articles[0], nil
}

// ReplaceRelatedArticles drops the cached scores for a source article and
// bulk-inserts the fresh set.
func (s *Store) ReplaceRelatedArticles(ctx context.Context, articleID uuid.UUID, entries []domain.RelatedArticle) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM related_articles WHERE article_id = $1;`, articleID); err != nil {
		return fmt.Errorf("failed to clear related articles: %w", err)
	}

	if len(entries) > 0 {
		now := time.Now()
		rows := make([][]any, len(entries))
		for i, e := range entries {
			rows[i] = []any{articleID, e.RelatedArticleID, e.Score, now}
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"related_articles"},
			[]string{"article_id", "related_article_id", "score", "calculated_at"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to bulk insert related articles: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// RelatedArticlesFor returns the cached suggestions, highest score first.
func (s *Store) RelatedArticlesFor(ctx context.Context, articleID uuid.UUID, limit int) ([]domain.RelatedArticle, error) {
	rows, err := s.db.Query(ctx, `
        SELECT r.article_id, r.related_article_id, r.score, r.calculated_at, `+articleColumns+`
        FROM related_articles r
        JOIN articles a ON a.id = r.related_article_id
        JOIN users u ON u.id = a.author_id
        WHERE r.article_id = $1 AND a.status = 'PUBLISHED'
        ORDER BY r.score DESC
        LIMIT $2;
    `, articleID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query related articles: %w", err)
	}
	defer rows.Close()

	var related []domain.RelatedArticle
	for rows.Next() {
		var r domain.RelatedArticle
		var a domain.Article
		var author domain.UserSummary
		err := rows.Scan(
			&r.ArticleID, &r.RelatedArticleID, &r.Score, &r.CalculatedAt,
			&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Abstract,
			&a.Keywords, &a.Category, &a.CoverImage, &a.DOI, &a.Language,
			&a.Status, &a.Price, &a.IsPremium, &a.Featured, &a.Views, &a.Likes,
			&a.Shares, &a.CommentsCount, &a.AuthorID, &a.PublishedAt,
			&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan related article: %w", err)
		}
		a.Author = &author
		r.Related = &a
		related = append(related, r)
	}
	return related, rows.Err()
}
