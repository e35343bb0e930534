package domain

import (
	"time"

	"github.com/google/uuid"
)

// RelatedArticle is a cached, scored suggestion link from one article to
// another. Rows for a source article are deleted and regenerated wholesale
// on each recalculation.
type RelatedArticle struct {
	ArticleID        uuid.UUID `json:"articleId"`
	RelatedArticleID uuid.UUID `json:"relatedArticleId"`
	Score            float64   `json:"score"`
	Related          *Article  `json:"relatedArticle,omitempty"`
	CalculatedAt     time.Time `json:"calculatedAt"`
}
