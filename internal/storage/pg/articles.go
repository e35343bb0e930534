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
	"github.com/inkpress/inkpress/pkg/stringsutil"
	"github.com/jackc/pgx/v5"
)

const articleColumns = `
    a.id, a.title, a.slug, a.content, a.excerpt, a.abstract, a.keywords,
    a.category, a.cover_image, a.doi, a.language, a.status, a.price, a.is_premium,
    a.featured, a.views, a.likes, a.shares, a.comments_count, a.author_id,
    a.published_at, a.created_at, a.updated_at, u.id, u.name
`

// ArticleQuery narrows and orders article listings.
type ArticleQuery struct {
	Status   domain.ArticleStatus
	Category string
	Tag      string
	AuthorID uuid.UUID
	Featured *bool
	Premium  *bool
	Search   string
	SortBy   string
	Order    string
	Limit    int
	Offset   int
}

func (s *Store) CreateArticle(ctx context.Context, article *domain.Article, tags []string) error {
	if article.ID == uuid.Nil {
		article.ID = uuid.New()
	}
	if article.Status == "" {
		article.Status = domain.StatusDraft
	}
	now := time.Now()
	article.CreatedAt = now
	article.UpdatedAt = now
	if article.Status == domain.StatusPublished && article.PublishedAt == nil {
		article.PublishedAt = &now
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cmd := `
        INSERT INTO articles (
            id, title, slug, content, excerpt, abstract, keywords, category,
            cover_image, doi, language, status, price, is_premium, featured,
            author_id, published_at, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
    `
	_, err = tx.Exec(ctx, cmd,
		article.ID, article.Title, article.Slug, article.Content, article.Excerpt,
		article.Abstract, article.Keywords, article.Category, article.CoverImage,
		article.DOI, article.Language, article.Status, article.Price,
		article.IsPremium, article.Featured, article.AuthorID,
		article.PublishedAt, article.CreatedAt, article.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.NewConflict("Article slug already exists")
		}
		return fmt.Errorf("failed to insert article: %w", err)
	}

	if err := s.replaceArticleTags(ctx, tx, article.ID, tags); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) ArticleByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+articleColumns+`
        FROM articles a JOIN users u ON u.id = a.author_id
        WHERE a.id = $1;
    `, id)
	article, err := scanArticle(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	row := s.db.QueryRow(ctx, `
        SELECT `+articleColumns+`
        FROM articles a JOIN users u ON u.id = a.author_id
        WHERE a.slug = $1;
    `, slug)
	article, err := scanArticle(row)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// ArticlesPublishedSince feeds the weekly digest: published articles with a
// publish stamp at or after the cutoff, newest first.
func (s *Store) ArticlesPublishedSince(ctx context.Context, since time.Time) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, `
        SELECT `+articleColumns+`
        FROM articles a JOIN users u ON u.id = a.author_id
        WHERE a.status = 'PUBLISHED' AND a.published_at >= $1
        ORDER BY a.published_at DESC;
    `, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent articles: %w", err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// ListArticles returns a filtered page plus the unfiltered-by-page total.
func (s *Store) ListArticles(ctx context.Context, q ArticleQuery) ([]domain.Article, int64, error) {
	base := s.qb.Select().
		From("articles a").
		Join("users u ON u.id = a.author_id")

	if q.Status != "" {
		base = base.Where(squirrel.Eq{"a.status": q.Status})
	}
	if q.Category != "" {
		base = base.Where(squirrel.Eq{"a.category": q.Category})
	}
	if q.Tag != "" {
		base = base.Where(`a.id IN (
            SELECT at.article_id FROM article_tags at
            JOIN tags t ON t.id = at.tag_id WHERE t.slug = ?
        )`, q.Tag)
	}
	if q.AuthorID != uuid.Nil {
		base = base.Where(squirrel.Eq{"a.author_id": q.AuthorID})
	}
	if q.Featured != nil {
		base = base.Where(squirrel.Eq{"a.featured": *q.Featured})
	}
	if q.Premium != nil {
		base = base.Where(squirrel.Eq{"a.is_premium": *q.Premium})
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"a.title": pattern},
			squirrel.ILike{"a.excerpt": pattern},
		})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := base.Column(articleColumns).
		OrderBy(articleOrderBy(q.SortBy, q.Order)).
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachTagsBulk(ctx, articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func articleOrderBy(sortBy, order string) string {
	col := "a.published_at"
	switch sortBy {
	case "views":
		col = "a.views"
	case "likes":
		col = "a.likes"
	case "title":
		col = "a.title"
	case "createdAt":
		col = "a.created_at"
	}
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}
	return col + " " + dir + " NULLS LAST"
}

// UpdateArticle applies only the non-nil fields. Tags replace the existing
// set when non-nil.
type ArticleUpdate struct {
	Title      *string
	Content    *string
	Excerpt    *string
	Abstract   *string
	Keywords   *string
	CoverImage *string
	DOI        *string
	Category   *string
	IsPremium  *bool
	Price      *float64
	Featured   *bool
	Tags       *[]string
}

func (s *Store) UpdateArticle(ctx context.Context, id uuid.UUID, upd ArticleUpdate) error {
	q := s.qb.Update("articles").Set("updated_at", time.Now()).Where(squirrel.Eq{"id": id})

	if upd.Title != nil {
		q = q.Set("title", *upd.Title)
	}
	if upd.Content != nil {
		q = q.Set("content", *upd.Content)
	}
	if upd.Excerpt != nil {
		q = q.Set("excerpt", *upd.Excerpt)
	}
	if upd.Abstract != nil {
		q = q.Set("abstract", *upd.Abstract)
	}
	if upd.Keywords != nil {
		q = q.Set("keywords", *upd.Keywords)
	}
	if upd.CoverImage != nil {
		q = q.Set("cover_image", *upd.CoverImage)
	}
	if upd.DOI != nil {
		q = q.Set("doi", *upd.DOI)
	}
	if upd.Category != nil {
		q = q.Set("category", *upd.Category)
	}
	if upd.IsPremium != nil {
		q = q.Set("is_premium", *upd.IsPremium)
	}
	if upd.Price != nil {
		q = q.Set("price", *upd.Price)
	}
	if upd.Featured != nil {
		q = q.Set("featured", *upd.Featured)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Article not found")
	}

	if upd.Tags != nil {
		if err := s.replaceArticleTags(ctx, tx, id, *upd.Tags); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// SetArticleStatus moves an article through the publish lifecycle. The first
// transition to PUBLISHED stamps published_at; later transitions keep it.
func (s *Store) SetArticleStatus(ctx context.Context, id uuid.UUID, status domain.ArticleStatus) error {
	cmd := `
        UPDATE articles
        SET status = $2,
            published_at = CASE WHEN $2 = 'PUBLISHED' AND published_at IS NULL THEN now() ELSE published_at END,
            updated_at = now()
        WHERE id = $1;
    `
	tag, err := s.db.Exec(ctx, cmd, id, status)
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Article not found")
	}
	return nil
}

func (s *Store) DeleteArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("Article not found")
	}
	return nil
}

func (s *Store) IncrementArticleViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

func (s *Store) AdjustArticleLikes(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET likes = GREATEST(likes + $2, 0) WHERE id = $1;`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust likes: %w", err)
	}
	return nil
}

func (s *Store) IncrementArticleShares(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET shares = shares + 1 WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to increment shares: %w", err)
	}
	return nil
}

func (s *Store) AdjustArticleComments(ctx context.Context, id uuid.UUID, delta int) error {
	_, err := s.db.Exec(ctx, `UPDATE articles SET comments_count = GREATEST(comments_count + $2, 0) WHERE id = $1;`, id, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust comment count: %w", err)
	}
	return nil
}

func (s *Store) replaceArticleTags(ctx context.Context, tx pgx.Tx, articleID uuid.UUID, tags []string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM article_tags WHERE article_id = $1;`, articleID); err != nil {
		return fmt.Errorf("failed to clear article tags: %w", err)
	}

	for _, name := range stringsutil.RemoveEmptyStrings(tags) {
		slug := stringsutil.Slugify(name)
		var tagID uuid.UUID
		err := tx.QueryRow(ctx, `
            INSERT INTO tags (id, name, slug) VALUES ($1, $2, $3)
            ON CONFLICT (slug) DO UPDATE SET name = tags.name
            RETURNING id;
        `, uuid.New(), name, slug).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2)
            ON CONFLICT DO NOTHING;
        `, articleID, tagID)
		if err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}

func (s *Store) attachTags(ctx context.Context, article *domain.Article) error {
	articles := []domain.Article{*article}
	if err := s.attachTagsBulk(ctx, articles); err != nil {
		return err
	}
	article.Tags = articles[0].Tags
	return nil
}

func (s *Store) attachTagsBulk(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(articles))
	index := make(map[uuid.UUID]int, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
		index[articles[i].ID] = i
	}

	rows, err := s.db.Query(ctx, `
        SELECT at.article_id, t.id, t.name, t.slug
        FROM article_tags at JOIN tags t ON t.id = at.tag_id
        WHERE at.article_id = ANY($1)
        ORDER BY t.name;
    `, ids)
	if err != nil {
		return fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID uuid.UUID
		var t domain.Tag
		if err := rows.Scan(&articleID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		i := index[articleID]
		articles[i].Tags = append(articles[i].Tags, t)
	}
	return rows.Err()
}

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	var author domain.UserSummary
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Abstract,
		&a.Keywords, &a.Category, &a.CoverImage, &a.DOI, &a.Language, &a.Status,
		&a.Price, &a.IsPremium, &a.Featured, &a.Views, &a.Likes, &a.Shares,
		&a.CommentsCount, &a.AuthorID, &a.PublishedAt, &a.CreatedAt,
		&a.UpdatedAt, &author.ID, &author.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound("Article not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	a.Author = &author
	return &a, nil
}

func scanArticles(rows pgx.Rows) ([]domain.Article, error) {
	var articles []domain.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}
