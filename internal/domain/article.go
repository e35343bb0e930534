package domain

import (
	"time"

	"github.com/google/uuid"
)

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusStaging   ArticleStatus = "STAGING"
	StatusPublished ArticleStatus = "PUBLISHED"
)

func ValidStatus(s ArticleStatus) bool {
	switch s {
	case StatusDraft, StatusStaging, StatusPublished:
		return true
	}
	return false
}

type Article struct {
	ID            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt,omitempty"`
	Abstract      string        `json:"abstract,omitempty"`
	Keywords      string        `json:"keywords,omitempty"`
	Category      string        `json:"category,omitempty"`
	CoverImage    string        `json:"coverImage,omitempty"`
	DOI           string        `json:"doi,omitempty"`
	Language      string        `json:"language,omitempty"`
	Status        ArticleStatus `json:"status"`
	Price         float64       `json:"price"`
	IsPremium     bool          `json:"isPremium"`
	Featured      bool          `json:"featured"`
	Views         int64         `json:"views"`
	Likes         int64         `json:"likes"`
	Shares        int64         `json:"shares"`
	CommentsCount int64         `json:"commentsCount"`
	AuthorID      uuid.UUID     `json:"authorId"`
	Author        *UserSummary  `json:"author,omitempty"`
	Tags          []Tag         `json:"tags,omitempty"`
	PublishedAt   *time.Time    `json:"publishedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type Tag struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ArticleRef is the compact article shape embedded in other payloads.
type ArticleRef struct {
	ID         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Excerpt    string    `json:"excerpt,omitempty"`
	CoverImage string    `json:"coverImage,omitempty"`
}
