package dto

import (
	"github.com/inkpress/inkpress/pkg/pagination"
)

type CreateArticleRequest struct {
	Title      string   `json:"title" validate:"required,min=3,max=300"`
	Content    string   `json:"content" validate:"required"`
	Excerpt    string   `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	Abstract   string   `json:"abstract,omitempty"`
	CoverImage string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Category   string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Keywords   []string `json:"keywords,omitempty" validate:"omitempty,dive,min=1,max=100"`
	DOI        string   `json:"doi,omitempty"`
	IsPremium  bool     `json:"isPremium"`
	Price      float64  `json:"price" validate:"omitempty,gte=0"`
	Featured   bool     `json:"featured"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=DRAFT STAGING PUBLISHED"`
}

type UpdateArticleRequest struct {
	Title      *string   `json:"title,omitempty" validate:"omitempty,min=3,max=300"`
	Content    *string   `json:"content,omitempty"`
	Excerpt    *string   `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	Abstract   *string   `json:"abstract,omitempty"`
	CoverImage *string   `json:"coverImage,omitempty" validate:"omitempty,url"`
	Category   *string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Tags       *[]string `json:"tags,omitempty"`
	Keywords   *[]string `json:"keywords,omitempty"`
	DOI        *string   `json:"doi,omitempty"`
	IsPremium  *bool     `json:"isPremium,omitempty"`
	Price      *float64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	Featured   *bool     `json:"featured,omitempty"`
	ChangeNote string    `json:"changeNote,omitempty" validate:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT STAGING PUBLISHED"`
}

// ArticleFilter collects the list-endpoint query params. Zero values mean
// "no constraint".
type ArticleFilter struct {
	pagination.Request
	Status   string `query:"status"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
	AuthorID string `query:"authorId"`
	Featured *bool  `query:"featured"`
	Premium  *bool  `query:"premium"`
	Search   string `query:"search"`
	SortBy   string `query:"sortBy"`
	Order    string `query:"order"`
}
