package domain

import (
	"time"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaImage MediaType = "IMAGE"
	MediaVideo MediaType = "VIDEO"
)

// Media tracks an uploaded object; URL is a presigned link that expires and
// can be refreshed from ObjectKey.
type Media struct {
	ID         uuid.UUID `json:"id"`
	ArticleID  uuid.UUID `json:"articleId"`
	URL        string    `json:"url"`
	Type       MediaType `json:"type"`
	ObjectKey  string    `json:"objectKey"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ArticlePDF struct {
	ID          uuid.UUID `json:"id"`
	ArticleID   uuid.UUID `json:"articleId"`
	PDFURL      string    `json:"pdfUrl"`
	ObjectKey   string    `json:"objectKey"`
	Version     string    `json:"version"`
	Downloads   int       `json:"downloads"`
	GeneratedAt time.Time `json:"generatedAt"`
}
