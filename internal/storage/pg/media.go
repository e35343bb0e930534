package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateMedia(ctx context.Context, m *domain.Media) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.UploadedAt = time.Now()

	cmd := `
        INSERT INTO media (id, article_id, url, type, object_key, size, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := s.db.Exec(ctx, cmd, m.ID, m.ArticleID, m.URL, m.Type, m.ObjectKey, m.Size, m.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}
	return nil
}

func (s *Store) MediaByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	var m domain.Media
	err := s.db.QueryRow(ctx, `
        SELECT id, article_id, url, type, object_key, size, uploaded_at
        FROM media WHERE id = $1;
    `, id).Scan(&m.ID, &m.ArticleID, &m.URL, &m.Type, &m.ObjectKey, &m.Size, &m.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Media not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan media: %w", err)
	}
	return &m, nil
}

func (s *Store) MediaByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Media, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, url, type, object_key, size, uploaded_at
        FROM media WHERE article_id = $1
        ORDER BY uploaded_at DESC;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var items []domain.Media
	for rows.Next() {
		var m domain.Media
		err := rows.Scan(&m.ID, &m.ArticleID, &m.URL, &m.Type, &m.ObjectKey, &m.Size, &m.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *Store) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM media WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Media not found")
	}
	return nil
}

func (s *Store) CreateArticlePDF(ctx context.Context, pdf *domain.ArticlePDF) error {
	if pdf.ID == uuid.Nil {
		pdf.ID = uuid.New()
	}
	pdf.GeneratedAt = time.Now()

	cmd := `
        INSERT INTO article_pdfs (id, article_id, pdf_url, object_key, version, generated_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := s.db.Exec(ctx, cmd, pdf.ID, pdf.ArticleID, pdf.PDFURL, pdf.ObjectKey, pdf.Version, pdf.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article pdf: %w", err)
	}
	return nil
}

// LatestArticlePDF returns the newest generated PDF for an article.
func (s *Store) LatestArticlePDF(ctx context.Context, articleID uuid.UUID) (*domain.ArticlePDF, error) {
	var pdf domain.ArticlePDF
	err := s.db.QueryRow(ctx, `
        SELECT id, article_id, pdf_url, object_key, version, downloads, generated_at
        FROM article_pdfs WHERE article_id = $1
        ORDER BY generated_at DESC LIMIT 1;
    `, articleID).Scan(&pdf.ID, &pdf.ArticleID, &pdf.PDFURL, &pdf.ObjectKey, &pdf.Version, &pdf.Downloads, &pdf.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("PDF not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article pdf: %w", err)
	}
	return &pdf, nil
}

func (s *Store) IncrementPDFDownloads(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE article_pdfs SET downloads = downloads + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to increment pdf downloads: %w", err)
	}
	return nil
}

func (s *Store) PDFsByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.ArticlePDF, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, pdf_url, object_key, version, downloads, generated_at
        FROM article_pdfs WHERE article_id = $1
        ORDER BY generated_at DESC;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article pdfs: %w", err)
	}
	defer rows.Close()

	var pdfs []domain.ArticlePDF
	for rows.Next() {
		var p domain.ArticlePDF
		err := rows.Scan(&p.ID, &p.ArticleID, &p.PDFURL, &p.ObjectKey, &p.Version, &p.Downloads, &p.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article pdf: %w", err)
		}
		pdfs = append(pdfs, p)
	}
	return pdfs, rows.Err()
}
