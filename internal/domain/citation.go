package domain

import (
	"time"

	"github.com/google/uuid"
)

type Citation struct {
	ID        uuid.UUID `json:"id"`
	ArticleID uuid.UUID `json:"articleId"`
	Authors   string    `json:"authors"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	Journal   string    `json:"journal,omitempty"`
	Volume    string    `json:"volume,omitempty"`
	Pages     string    `json:"pages,omitempty"`
	DOI       string    `json:"doi,omitempty"`
	URL       string    `json:"url,omitempty"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}
