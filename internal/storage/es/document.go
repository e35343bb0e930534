package es

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
)

// ArticleDocument is the flattened article shape indexed into Elasticsearch.
type ArticleDocument struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Excerpt     string     `json:"excerpt"`
	Abstract    string     `json:"abstract"`
	Keywords    string     `json:"keywords"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	AuthorID    string     `json:"authorId"`
	AuthorName  string     `json:"authorName"`
	AuthorEmail string     `json:"authorEmail,omitempty"`
	IsPremium   bool       `json:"isPremium"`
	Featured    bool       `json:"featured"`
	Language    string     `json:"language,omitempty"`
	Price       float64    `json:"price"`
	Views       int64      `json:"views"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

func mapToDocument(article domain.Article) ArticleDocument {
	doc := ArticleDocument{
		ID:          article.ID.String(),
		Title:       article.Title,
		Slug:        article.Slug,
		Content:     article.Content,
		Excerpt:     article.Excerpt,
		Abstract:    article.Abstract,
		Keywords:    article.Keywords,
		Category:    article.Category,
		AuthorID:    article.AuthorID.String(),
		IsPremium:   article.IsPremium,
		Featured:    article.Featured,
		Language:    article.Language,
		Price:       article.Price,
		Views:       article.Views,
		PublishedAt: article.PublishedAt,
	}
	if article.Author != nil {
		doc.AuthorName = article.Author.Name
		doc.AuthorEmail = article.Author.Email
	}
	for _, t := range article.Tags {
		doc.Tags = append(doc.Tags, t.Slug)
	}
	return doc
}

func (d ArticleDocument) toDomain() domain.Article {
	article := domain.Article{
		Title:     d.Title,
		Slug:      d.Slug,
		Content:   d.Content,
		Excerpt:   d.Excerpt,
		Abstract:  d.Abstract,
		Keywords:  d.Keywords,
		Category:  d.Category,
		IsPremium: d.IsPremium,
		Featured:  d.Featured,
		Language:  d.Language,
		Price:     d.Price,
		Views:     d.Views,
		Status:    domain.StatusPublished,
	}
	if id, err := uuid.Parse(d.ID); err == nil {
		article.ID = id
	}
	if authorID, err := uuid.Parse(d.AuthorID); err == nil {
		article.AuthorID = authorID
		article.Author = &domain.UserSummary{ID: authorID, Name: d.AuthorName}
	}
	article.PublishedAt = d.PublishedAt
	for _, slug := range d.Tags {
		article.Tags = append(article.Tags, domain.Tag{Name: slug, Slug: slug})
	}
	return article
}
