package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReadingProgress is unique per (user, article); progress is a 0-100
// percentage.
type ReadingProgress struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	ArticleID  uuid.UUID   `json:"articleId"`
	Progress   float64     `json:"progress"`
	Article    *ArticleRef `json:"article,omitempty"`
	LastReadAt time.Time   `json:"lastReadAt"`
}
