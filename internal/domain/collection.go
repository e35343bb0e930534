package domain

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Slug        string              `json:"slug"`
	Description string              `json:"description,omitempty"`
	CoverImage  string              `json:"coverImage,omitempty"`
	Order       int                 `json:"order"`
	Articles    []CollectionArticle `json:"articles,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// CollectionArticle is the ordered join row between a collection and an
// article, unique per pair.
type CollectionArticle struct {
	CollectionID uuid.UUID   `json:"collectionId"`
	ArticleID    uuid.UUID   `json:"articleId"`
	Order        int         `json:"order"`
	Article      *ArticleRef `json:"article,omitempty"`
	AddedAt      time.Time   `json:"addedAt"`
}
