package domain

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID    `json:"id"`
	ArticleID uuid.UUID    `json:"articleId"`
	UserID    *uuid.UUID   `json:"userId,omitempty"`
	User      *UserSummary `json:"user,omitempty"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Content   string       `json:"content"`
	ParentID  *uuid.UUID   `json:"parentId,omitempty"`
	Approved  bool         `json:"approved"`
	Likes     int64        `json:"likes"`
	Replies   []Comment    `json:"replies,omitempty"`
	Article   *ArticleRef  `json:"article,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
