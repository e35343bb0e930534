package pg

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/storage"
)

// Search performs weighted tsvector full-text search over published
// articles, with scores normalized against the best match.
func (s *Store) Search(ctx context.Context, req storage.SearchRequest) (*storage.SearchResult, error) {
	base := s.qb.Select().
		From("articles a").
		Join("users u ON u.id = a.author_id").
		Where(squirrel.Eq{"a.status": domain.StatusPublished})

	if req.Query != "" {
		base = base.Where(`a.search_vector @@ websearch_to_tsquery('english', ?)`, req.Query)
	}
	if req.Category != "" {
		base = base.Where(squirrel.Eq{"a.category": req.Category})
	}
	if len(req.Tags) > 0 {
		base = base.Where(`a.id IN (
            SELECT at.article_id FROM article_tags at
            JOIN tags t ON t.id = at.tag_id WHERE t.slug = ANY(?)
        )`, req.Tags)
	}
	if req.Author != "" {
		pattern := "%" + req.Author + "%"
		base = base.Where(squirrel.Or{
			squirrel.ILike{"u.name": pattern},
			squirrel.ILike{"u.email": pattern},
		})
	}
	if req.Premium != nil {
		base = base.Where(squirrel.Eq{"a.is_premium": *req.Premium})
	}
	if req.Featured != nil {
		base = base.Where(squirrel.Eq{"a.featured": *req.Featured})
	}
	if req.Language != "" {
		base = base.Where(squirrel.Eq{"a.language": req.Language})
	}
	if req.MinPrice != nil {
		base = base.Where(squirrel.GtOrEq{"a.price": *req.MinPrice})
	}
	if req.MaxPrice != nil {
		base = base.Where(squirrel.LtOrEq{"a.price": *req.MaxPrice})
	}
	if req.DateFrom != nil {
		base = base.Where(squirrel.GtOrEq{"a.published_at": *req.DateFrom})
	}
	if req.DateTo != nil {
		base = base.Where(squirrel.Lt{"a.published_at": *req.DateTo})
	}

	count := base.Column("COUNT(*)")
	if req.Query != "" {
		count = count.Column(`COALESCE(MAX(ts_rank(a.search_vector, websearch_to_tsquery('english', ?))), 0.0)`, req.Query)
	} else {
		count = count.Column("0.0")
	}
	countSQL, countArgs, err := count.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	var maxScore float64
	if err := s.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total, &maxScore); err != nil {
		return nil, fmt.Errorf("failed to count search matches: %w", err)
	}

	query := base.Column(articleColumns)
	if req.Query != "" {
		query = query.Column(`ts_rank(a.search_vector, websearch_to_tsquery('english', ?)) AS rank`, req.Query)
	} else {
		query = query.Column("0.0 AS rank")
	}
	query = query.
		OrderBy(searchOrder(req.SortBy)).
		Limit(uint64(req.Size)).
		Offset(uint64((req.Page - 1) * req.Size))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	result := &storage.SearchResult{TotalMatches: total, MaxScore: maxScore}
	for rows.Next() {
		var a domain.Article
		var author domain.UserSummary
		var rank float64
		err := rows.Scan(
			&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.Abstract,
			&a.Keywords, &a.Category, &a.CoverImage, &a.DOI, &a.Language,
			&a.Status, &a.Price, &a.IsPremium, &a.Featured, &a.Views, &a.Likes,
			&a.Shares, &a.CommentsCount, &a.AuthorID, &a.PublishedAt,
			&a.CreatedAt, &a.UpdatedAt, &author.ID, &author.Name, &rank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		a.Author = &author

		hit := storage.SearchHit{Article: a, Score: rank}
		if maxScore > 0 {
			hit.ScoreNormalized = rank / maxScore
		}
		result.Hits = append(result.Hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search hits: %w", err)
	}
	return result, nil
}

// searchOrder maps a sort key to a deterministic ORDER BY, the article id
// breaking every tie.
func searchOrder(sortBy string) string {
	switch sortBy {
	case storage.SortDate:
		return "a.published_at DESC NULLS LAST, a.id DESC"
	case storage.SortPopularity:
		return "a.views DESC, a.id DESC"
	case storage.SortPriceAsc:
		return "a.price ASC, a.id DESC"
	case storage.SortPriceDesc:
		return "a.price DESC, a.id DESC"
	case storage.SortTitle:
		return "a.title ASC, a.id DESC"
	}
	return "rank DESC, a.published_at DESC NULLS LAST, a.id DESC"
}

// SuggestTitles returns published article titles matching a prefix, for
// search-box autocomplete.
func (s *Store) SuggestTitles(ctx context.Context, prefix string, limit int) ([]domain.ArticleRef, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, title, slug, excerpt, cover_image
        FROM articles
        WHERE status = 'PUBLISHED' AND title ILIKE $1
        ORDER BY views DESC
        LIMIT $2;
    `, prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer rows.Close()

	var refs []domain.ArticleRef
	for rows.Next() {
		var r domain.ArticleRef
		if err := rows.Scan(&r.ID, &r.Title, &r.Slug, &r.Excerpt, &r.CoverImage); err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// SuggestTags returns tags matching a prefix, most used first.
func (s *Store) SuggestTags(ctx context.Context, prefix string, limit int) ([]domain.Tag, error) {
	rows, err := s.db.Query(ctx, `
        SELECT t.id, t.name, t.slug
        FROM tags t
        LEFT JOIN article_tags at ON at.tag_id = t.id
        WHERE t.name ILIKE $1
        GROUP BY t.id, t.name, t.slug
        ORDER BY COUNT(at.article_id) DESC, t.name ASC
        LIMIT $2;
    `, prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag suggestions: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan tag suggestion: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// NoopIndexer satisfies storage.Indexer for the Postgres backend, which
// searches its own tables and has nothing to mirror.
type NoopIndexer struct{}

func (NoopIndexer) IndexArticle(context.Context, domain.Article) error { return nil }

func (NoopIndexer) DeleteArticle(context.Context, uuid.UUID) error { return nil }
