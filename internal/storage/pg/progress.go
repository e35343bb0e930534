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

// UpsertReadingProgress keeps one row per (user, article) with the latest
// percentage.
func (s *Store) UpsertReadingProgress(ctx context.Context, p *domain.ReadingProgress) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.LastReadAt = time.Now()

	cmd := `
        INSERT INTO reading_progress (id, user_id, article_id, progress, last_read_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, article_id) DO UPDATE
        SET progress = EXCLUDED.progress, last_read_at = EXCLUDED.last_read_at;
    `
	_, err := s.db.Exec(ctx, cmd, p.ID, p.UserID, p.ArticleID, p.Progress, p.LastReadAt)
	if err != nil {
		return fmt.Errorf("failed to upsert reading progress: %w", err)
	}
	return nil
}

func (s *Store) ReadingProgressFor(ctx context.Context, userID, articleID uuid.UUID) (*domain.ReadingProgress, error) {
	var p domain.ReadingProgress
	err := s.db.QueryRow(ctx, `
        SELECT id, user_id, article_id, progress, last_read_at
        FROM reading_progress WHERE user_id = $1 AND article_id = $2;
    `, userID, articleID).Scan(&p.ID, &p.UserID, &p.ArticleID, &p.Progress, &p.LastReadAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Reading progress not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reading progress: %w", err)
	}
	return &p, nil
}

// ReadingHistory returns a user's in-progress and finished articles, most
// recently read first.
func (s *Store) ReadingHistory(ctx context.Context, userID uuid.UUID) ([]domain.ReadingProgress, error) {
	rows, err := s.db.Query(ctx, `
        SELECT rp.id, rp.user_id, rp.article_id, rp.progress, rp.last_read_at,
               a.id, a.title, a.slug, a.excerpt, a.cover_image
        FROM reading_progress rp JOIN articles a ON a.id = rp.article_id
        WHERE rp.user_id = $1
        ORDER BY rp.last_read_at DESC;
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading history: %w", err)
	}
	defer rows.Close()

	var history []domain.ReadingProgress
	for rows.Next() {
		var p domain.ReadingProgress
		var ref domain.ArticleRef
		err := rows.Scan(
			&p.ID, &p.UserID, &p.ArticleID, &p.Progress, &p.LastReadAt,
			&ref.ID, &ref.Title, &ref.Slug, &ref.Excerpt, &ref.CoverImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading history: %w", err)
		}
		p.Article = &ref
		history = append(history, p)
	}
	return history, rows.Err()
}

func (s *Store) DeleteReadingProgress(ctx context.Context, userID, articleID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM reading_progress WHERE user_id = $1 AND article_id = $2;
    `, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete reading progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Reading progress not found")
	}
	return nil
}
