package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateCitation(ctx context.Context, citation *domain.Citation) error {
	if citation.ID == uuid.Nil {
		citation.ID = uuid.New()
	}
	citation.CreatedAt = time.Now()

	cmd := `
        INSERT INTO citations (id, article_id, authors, title, year, journal, volume, pages, doi, url, "order", created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := s.db.Exec(ctx, cmd,
		citation.ID, citation.ArticleID, citation.Authors, citation.Title,
		citation.Year, citation.Journal, citation.Volume, citation.Pages,
		citation.DOI, citation.URL, citation.Order, citation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert citation: %w", err)
	}
	return nil
}

func (s *Store) CitationByID(ctx context.Context, id uuid.UUID) (*domain.Citation, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, article_id, authors, title, year, journal, volume, pages, doi, url, "order", created_at
        FROM citations WHERE id = $1;
    `, id)
	return scanCitation(row)
}

func (s *Store) CitationsByArticle(ctx context.Context, articleID uuid.UUID) ([]domain.Citation, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, article_id, authors, title, year, journal, volume, pages, doi, url, "order", created_at
        FROM citations WHERE article_id = $1
        ORDER BY "order" ASC, created_at ASC;
    `, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query citations: %w", err)
	}
	defer rows.Close()

	var citations []domain.Citation
	for rows.Next() {
		c, err := scanCitation(rows)
		if err != nil {
			return nil, err
		}
		citations = append(citations, *c)
	}
	return citations, rows.Err()
}

type CitationUpdate struct {
	Authors *string
	Title   *string
	Year    *int
	Journal *string
	Volume  *string
	Pages   *string
	DOI     *string
	URL     *string
	Order   *int
}

func (s *Store) UpdateCitation(ctx context.Context, id uuid.UUID, upd CitationUpdate) error {
	q := s.qb.Update("citations").Where(squirrel.Eq{"id": id})
	set := false
	if upd.Authors != nil {
		q, set = q.Set("authors", *upd.Authors), true
	}
	if upd.Title != nil {
		q, set = q.Set("title", *upd.Title), true
	}
	if upd.Year != nil {
		q, set = q.Set("year", *upd.Year), true
	}
	if upd.Journal != nil {
		q, set = q.Set("journal", *upd.Journal), true
	}
	if upd.Volume != nil {
		q, set = q.Set("volume", *upd.Volume), true
	}
	if upd.Pages != nil {
		q, set = q.Set("pages", *upd.Pages), true
	}
	if upd.DOI != nil {
		q, set = q.Set("doi", *upd.DOI), true
	}
	if upd.URL != nil {
		q, set = q.Set("url", *upd.URL), true
	}
	if upd.Order != nil {
		q, set = q.Set(`"order"`, *upd.Order), true
	}
	if !set {
		return nil
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update citation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Citation not found")
	}
	return nil
}

func (s *Store) DeleteCitation(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM citations WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete citation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Citation not found")
	}
	return nil
}

func scanCitation(row pgx.Row) (*domain.Citation, error) {
	var c domain.Citation
	err := row.Scan(
		&c.ID, &c.ArticleID, &c.Authors, &c.Title, &c.Year, &c.Journal,
		&c.Volume, &c.Pages, &c.DOI, &c.URL, &c.Order, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Citation not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan citation: %w", err)
	}
	return &c, nil
}
