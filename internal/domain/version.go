package domain

import (
	"time"

	"github.com/google/uuid"
)

// ArticleVersion is a content snapshot taken before edits; restore copies
// the snapshot content back onto the article.
type ArticleVersion struct {
	ID          uuid.UUID   `json:"id"`
	ArticleID   uuid.UUID   `json:"articleId"`
	Version     string      `json:"version"`
	Content     string      `json:"content"`
	Changelog   string      `json:"changelog,omitempty"`
	Article     *ArticleRef `json:"article,omitempty"`
	PublishedAt time.Time   `json:"publishedAt"`
}
