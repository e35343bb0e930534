package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationCommentReply NotificationType = "COMMENT_REPLY"
	NotificationCommentLike  NotificationType = "COMMENT_LIKE"
	NotificationNewArticle   NotificationType = "NEW_ARTICLE"
	NotificationPurchase     NotificationType = "PURCHASE"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
