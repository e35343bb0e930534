package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
)

func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()

	cmd := `
        INSERT INTO notifications (id, user_id, type, title, message, link, read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7);
    `
	_, err := s.db.Exec(ctx, cmd, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Store) NotificationsByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]domain.Notification, error) {
	cmd := `
        SELECT id, user_id, type, title, message, link, read, created_at
        FROM notifications WHERE user_id = $1
    `
	if unreadOnly {
		cmd += ` AND NOT read`
	}
	cmd += ` ORDER BY created_at DESC LIMIT $2;`

	rows, err := s.db.Query(ctx, cmd, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (s *Store) UnreadNotificationCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `
        SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read;
    `, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return n, nil
}

// MarkNotificationRead scopes by user so one user cannot mark another's rows.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2;
    `, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Notification not found")
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read;
    `, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteNotification(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
        DELETE FROM notifications WHERE id = $1 AND user_id = $2;
    `, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Notification not found")
	}
	return nil
}
