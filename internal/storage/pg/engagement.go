package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
)

// LikeArticle records a like keyed by user when authenticated, by IP
// otherwise. Returns false when the like already existed.
func (s *Store) LikeArticle(ctx context.Context, articleID uuid.UUID, userID *uuid.UUID, ip string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        INSERT INTO article_likes (id, article_id, user_id, ip_address)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT DO NOTHING;
    `, uuid.New(), articleID, userID, ip)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UnlikeArticle(ctx context.Context, articleID uuid.UUID, userID *uuid.UUID, ip string) (bool, error) {
	var cmd string
	var arg any
	if userID != nil {
		cmd = `DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2;`
		arg = *userID
	} else {
		cmd = `DELETE FROM article_likes WHERE article_id = $1 AND user_id IS NULL AND ip_address = $2;`
		arg = ip
	}
	tag, err := s.db.Exec(ctx, cmd, articleID, arg)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) HasLiked(ctx context.Context, articleID uuid.UUID, userID *uuid.UUID, ip string) (bool, error) {
	var cmd string
	var arg any
	if userID != nil {
		cmd = `SELECT EXISTS (SELECT 1 FROM article_likes WHERE article_id = $1 AND user_id = $2);`
		arg = *userID
	} else {
		cmd = `SELECT EXISTS (SELECT 1 FROM article_likes WHERE article_id = $1 AND user_id IS NULL AND ip_address = $2);`
		arg = ip
	}
	var liked bool
	if err := s.db.QueryRow(ctx, cmd, articleID, arg).Scan(&liked); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return liked, nil
}

func (s *Store) AddReaction(ctx context.Context, reaction *domain.Reaction) error {
	if reaction.ID == uuid.Nil {
		reaction.ID = uuid.New()
	}
	reaction.CreatedAt = time.Now()

	tag, err := s.db.Exec(ctx, `
        INSERT INTO reactions (id, article_id, type, user_id, ip_address, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT DO NOTHING;
    `, reaction.ID, reaction.ArticleID, reaction.Type, reaction.UserID, reaction.IPAddress, reaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("Reaction already recorded")
	}
	return nil
}

func (s *Store) RemoveReaction(ctx context.Context, articleID uuid.UUID, reactionType domain.ReactionType, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM reactions WHERE article_id = $1 AND type = $2 AND user_id = $3;
    `, articleID, reactionType, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Reaction not found")
	}
	return nil
}

// ReactionCounts returns per-type totals for an article.
func (s *Store) ReactionCounts(ctx context.Context, articleID uuid.UUID) (map[domain.ReactionType]int64, error) {
	rows, err := s.db.Query(ctx, `
        SELECT type, COUNT(*) FROM reactions WHERE article_id = $1 GROUP BY type;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ReactionType]int64)
	for rows.Next() {
		var t domain.ReactionType
		var n int64
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("failed to scan reaction count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

func (s *Store) AddShare(ctx context.Context, share *domain.Share) error {
	if share.ID == uuid.Nil {
		share.ID = uuid.New()
	}
	share.CreatedAt = time.Now()

	_, err := s.db.Exec(ctx, `
        INSERT INTO shares (id, article_id, platform, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5);
    `, share.ID, share.ArticleID, share.Platform, share.UserID, share.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert share: %w", err)
	}
	return nil
}

func (s *Store) ShareCounts(ctx context.Context, articleID uuid.UUID) (map[domain.SharePlatform]int64, error) {
	rows, err := s.db.Query(ctx, `
        SELECT platform, COUNT(*) FROM shares WHERE article_id = $1 GROUP BY platform;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query share counts: %w", err)
	}
	defer rows.Close()

	counts := map[domain.SharePlatform]int64{}
	for rows.Next() {
		var platform domain.SharePlatform
		var count int64
		if err := rows.Scan(&platform, &count); err != nil {
			return nil, fmt.Errorf("failed to scan share count: %w", err)
		}
		counts[platform] = count
	}
	return counts, rows.Err()
}

func (s *Store) AddBookmark(ctx context.Context, userID, articleID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        INSERT INTO bookmarks (id, user_id, article_id) VALUES ($1, $2, $3)
        ON CONFLICT DO NOTHING;
    `, uuid.New(), userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("Article already bookmarked")
	}
	return nil
}

func (s *Store) RemoveBookmark(ctx context.Context, userID, articleID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM bookmarks WHERE user_id = $1 AND article_id = $2;
    `, userID, articleID)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Bookmark not found")
	}
	return nil
}

func (s *Store) BookmarksByUser(ctx context.Context, userID uuid.UUID) ([]domain.Bookmark, error) {
	rows, err := s.db.Query(ctx, `
        SELECT b.id, b.user_id, b.article_id, b.created_at, `+articleColumns+`
        FROM bookmarks b
        JOIN articles a ON a.id = b.article_id
        JOIN users u ON u.id = a.author_id
        WHERE b.user_id = $1
        ORDER BY b.created_at DESC;
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []domain.Bookmark
	for rows.Next() {
		var b domain.Bookmark
		var a domain.Article
		var author domain.UserSummary
		err := rows.Scan(
			&b.ID, &b.UserID, &b.ArticleID, &b.CreatedAt,
			&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Abstract,
			&a.Keywords, &a.Category, &a.CoverImage, &a.DOI, &a.Language,
			&a.Status, &a.Price, &a.IsPremium, &a.Featured, &a.Views, &a.Likes,
			&a.Shares, &a.CommentsCount, &a.AuthorID, &a.PublishedAt,
			&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bookmark: %w", err)
		}
		a.Author = &author
		b.Article = &a
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
