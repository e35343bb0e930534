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

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	cmd := `
        INSERT INTO comments (id, article_id, user_id, name, email, content, parent_id, approved, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
    `
	_, err := s.db.Exec(ctx, cmd,
		comment.ID, comment.ArticleID, comment.UserID, comment.Name,
		comment.Email, comment.Content, comment.ParentID, comment.Approved,
		comment.CreatedAt, comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (s *Store) CommentByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, article_id, user_id, name, email, content, parent_id, approved, likes, created_at, updated_at
        FROM comments WHERE id = $1;
    `, id)
	return scanComment(row)
}

// CommentsByArticle returns approved comments threaded one level deep:
// top-level comments newest first, replies oldest first under each parent.
func (s *Store) CommentsByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Comment, error) {
	rows, err := s.db.Query(ctx, `
        SELECT c.id, c.article_id, c.user_id, c.name, c.email, c.content,
               c.parent_id, c.approved, c.likes, c.created_at, c.updated_at,
               u.id, u.name
        FROM comments c LEFT JOIN users u ON u.id = c.user_id
        WHERE c.article_id = $1 AND c.approved
        ORDER BY c.created_at ASC;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var all []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var userID *uuid.UUID
		var userName *string
		err := rows.Scan(
			&c.ID, &c.ArticleID, &c.UserID, &c.Name, &c.Email, &c.Content,
			&c.ParentID, &c.Approved, &c.Likes, &c.CreatedAt, &c.UpdatedAt,
			&userID, &userName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		if userID != nil {
			c.User = &domain.UserSummary{ID: *userID, Name: *userName}
		}
		all = append(all, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return threadComments(all), nil
}

func threadComments(flat []domain.Comment) []domain.Comment {
	byID := make(map[uuid.UUID]*domain.Comment, len(flat))
	var roots []*domain.Comment
	for i := range flat {
		c := &flat[i]
		byID[c.ID] = c
		if c.ParentID == nil {
			roots = append(roots, c)
		}
	}
	for i := range flat {
		c := &flat[i]
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, *c)
		}
	}

	// newest top-level first; replies stay in insertion (oldest-first) order
	out := make([]domain.Comment, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		out = append(out, *roots[i])
	}
	return out
}

// ListComments returns a flat moderation view of every comment, optionally
// filtered by approval state.
func (s *Store) ListComments(ctx context.Context, approved *bool) ([]domain.Comment, error) {
	cmd := `
        SELECT c.id, c.article_id, c.user_id, c.name, c.email, c.content,
               c.parent_id, c.approved, c.likes, c.created_at, c.updated_at,
               a.id, a.title, a.slug, a.excerpt, a.cover_image
        FROM comments c JOIN articles a ON a.id = c.article_id
    `
	args := []any{}
	if approved != nil {
		cmd += ` WHERE c.approved = $1`
		args = append(args, *approved)
	}
	cmd += ` ORDER BY c.created_at ASC;`

	rows, err := s.db.Query(ctx, cmd, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var ref domain.ArticleRef
		err := rows.Scan(
			&c.ID, &c.ArticleID, &c.UserID, &c.Name, &c.Email, &c.Content,
			&c.ParentID, &c.Approved, &c.Likes, &c.CreatedAt, &c.UpdatedAt,
			&ref.ID, &ref.Title, &ref.Slug, &ref.Excerpt, &ref.CoverImage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.Article = &ref
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE comments SET content = $2, updated_at = now() WHERE id = $1;
    `, id, content)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Comment not found")
	}
	return nil
}

func (s *Store) SetCommentApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE comments SET approved = $2, updated_at = now() WHERE id = $1;
    `, id, approved)
	if err != nil {
		return fmt.Errorf("failed to moderate comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Comment not found")
	}
	return nil
}

func (s *Store) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Comment not found")
	}
	return nil
}

func (s *Store) IncrementCommentLikes(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `UPDATE comments SET likes = likes + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to like comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Comment not found")
	}
	return nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.UserID, &c.Name, &c.Email, &c.Content,
		&c.ParentID, &c.Approved, &c.Likes, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Comment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}
	return &c, nil
}
