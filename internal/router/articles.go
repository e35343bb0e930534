package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/related"
	"github.com/inkpress/inkpress/internal/storage"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/inkpress/inkpress/pkg/pagination"
	"github.com/inkpress/inkpress/pkg/stringsutil"
	"github.com/labstack/echo/v4"
)

// lockedPreviewLen caps the teaser shown for unpurchased premium articles
// when no excerpt is set.
const lockedPreviewLen = 200

type ArticleRouter struct {
	e       *echo.Echo
	store   *pg.Store
	tokens  *auth.TokenManager
	indexer storage.Indexer
	recalc  *related.Recalculator
	mail    *email.Service
}

func NewArticleRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, indexer storage.Indexer, recalc *related.Recalculator, mail *email.Service) *ArticleRouter {
	return &ArticleRouter{e: e, store: store, tokens: tokens, indexer: indexer, recalc: recalc, mail: mail}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/api/articles")
	g.GET("", r.list, auth.OptionalAuthenticate(r.tokens, r.store))
	g.GET("/:slug", r.bySlug, auth.OptionalAuthenticate(r.tokens, r.store))
	g.GET("/:id/related", r.relatedArticles)

	admin := g.Group("", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.POST("", r.create)
	admin.PUT("/:id", r.update)
	admin.PATCH("/:id/status", r.setStatus)
	admin.DELETE("/:id", r.delete)
	admin.GET("/:id/versions", r.versions)
	admin.GET("/:id/versions/:versionId", r.versionByID)
	admin.POST("/:id/versions/:versionId/restore", r.restoreVersion)
	admin.POST("/:id/related/recalculate", r.recalculateRelated)
}

type articleListResponse struct {
	Articles []articleResponse `json:"articles"`
	Meta     pagination.Meta   `json:"meta"`
}

// articleResponse wraps an article with the premium lock flag. Locked
// articles carry a teaser in place of the full content.
type articleResponse struct {
	domain.Article
	Locked bool `json:"locked,omitempty"`
}

func (r *ArticleRouter) list(c echo.Context) error {
	var filter dto.ArticleFilter
	if err := validate.BindQuery(c, &filter); err != nil {
		return err
	}
	filter.Normalize(pagination.PageDefaultSize)

	status := domain.ArticleStatus(filter.Status)
	user := auth.CurrentUser(c)
	if !user.IsAdmin() {
		// drafts and staged articles are admin-only
		status = domain.StatusPublished
	} else if status != "" && !domain.ValidStatus(status) {
		status = domain.StatusPublished
	}

	q := pg.ArticleQuery{
		Status:   status,
		Category: filter.Category,
		Tag:      filter.Tag,
		Featured: filter.Featured,
		Premium:  filter.Premium,
		Search:   filter.Search,
		SortBy:   filter.SortBy,
		Order:    filter.Order,
		Limit:    filter.Limit,
		Offset:   filter.Offset(),
	}
	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err == nil {
			q.AuthorID = authorID
		}
	}

	ctx := c.Request().Context()
	articles, total, err := r.store.ListArticles(ctx, q)
	if err != nil {
		return err
	}

	responses := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		responses = append(responses, r.gate(ctx, a, user))
	}
	return c.JSON(http.StatusOK, articleListResponse{
		Articles: responses,
		Meta:     pagination.NewMeta(filter.Request, total),
	})
}

func (r *ArticleRouter) bySlug(c echo.Context) error {
	ctx := c.Request().Context()
	article, err := r.store.ArticleBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if article.Status != domain.StatusPublished && !user.IsAdmin() {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Article not found"})
	}

	return c.JSON(http.StatusOK, r.gate(ctx, *article, user))
}

func (r *ArticleRouter) create(c echo.Context) error {
	var req dto.CreateArticleRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	article := &domain.Article{
		Title:      req.Title,
		Slug:       uniqueSlug(req.Title),
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Abstract:   req.Abstract,
		Keywords:   strings.Join(req.Keywords, ", "),
		Category:   req.Category,
		CoverImage: req.CoverImage,
		DOI:        req.DOI,
		IsPremium:  req.IsPremium,
		Price:      req.Price,
		Featured:   req.Featured,
		Status:     domain.ArticleStatus(req.Status),
		AuthorID:   user.ID,
	}

	ctx := c.Request().Context()
	if err := r.store.CreateArticle(ctx, article, req.Tags); err != nil {
		return err
	}

	created, err := r.store.ArticleByID(ctx, article.ID)
	if err != nil {
		return err
	}
	r.syncSearchAndRelated(created)
	return c.JSON(http.StatusCreated, created)
}

func (r *ArticleRouter) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateArticleRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()

	// snapshot the current content before an edit overwrites it
	if req.Content != nil {
		if err := r.snapshotVersion(ctx, id, req.ChangeNote); err != nil {
			return err
		}
	}

	upd := pg.ArticleUpdate{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Abstract:   req.Abstract,
		CoverImage: req.CoverImage,
		DOI:        req.DOI,
		Category:   req.Category,
		IsPremium:  req.IsPremium,
		Price:      req.Price,
		Featured:   req.Featured,
		Tags:       req.Tags,
	}
	if req.Keywords != nil {
		joined := strings.Join(*req.Keywords, ", ")
		upd.Keywords = &joined
	}
	if err := r.store.UpdateArticle(ctx, id, upd); err != nil {
		return err
	}

	article, err := r.store.ArticleByID(ctx, id)
	if err != nil {
		return err
	}
	r.syncSearchAndRelated(article)
	return c.JSON(http.StatusOK, article)
}

func (r *ArticleRouter) setStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	prev, err := r.store.ArticleByID(ctx, id)
	if err != nil {
		return err
	}

	if err := r.store.SetArticleStatus(ctx, id, domain.ArticleStatus(req.Status)); err != nil {
		return err
	}

	article, err := r.store.ArticleByID(ctx, id)
	if err != nil {
		return err
	}
	if article.Status == domain.StatusPublished && prev.PublishedAt == nil {
		r.announcePublish(article)
	}
	r.syncSearchAndRelated(article)
	return c.JSON(http.StatusOK, article)
}

func (r *ArticleRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := r.store.DeleteArticle(c.Request().Context(), id); err != nil {
		return err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.indexer.DeleteArticle(ctx, id); err != nil {
			slog.Error("Failed to remove article from index", "article_id", id, "error", err)
		}
	}()
	return c.NoContent(http.StatusNoContent)
}

func (r *ArticleRouter) versions(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	versions, err := r.store.VersionsByArticle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, versions)
}

func (r *ArticleRouter) versionByID(c echo.Context) error {
	versionID, err := pathID(c, "versionId")
	if err != nil {
		return err
	}

	version, err := r.store.ArticleVersionByID(c.Request().Context(), versionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, version)
}

func (r *ArticleRouter) restoreVersion(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	versionID, err := pathID(c, "versionId")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	// the pre-restore content becomes a version too, so restores are undoable
	if err := r.snapshotVersion(ctx, id, "before restore"); err != nil {
		return err
	}
	if err := r.store.RestoreArticleVersion(ctx, id, versionID); err != nil {
		return err
	}

	article, err := r.store.ArticleByID(ctx, id)
	if err != nil {
		return err
	}
	r.syncSearchAndRelated(article)
	return c.JSON(http.StatusOK, article)
}

// relatedArticles serves the cached suggestions, computing them on the spot
// when the cache is cold. A missing article surfaces as a 404.
func (r *ArticleRouter) relatedArticles(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	entries, err := r.recalc.Suggestions(c.Request().Context(), id, related.MaxRelated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (r *ArticleRouter) recalculateRelated(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := r.recalc.Recalculate(c.Request().Context(), id); err != nil {
		return err
	}

	entries, err := r.store.RelatedArticlesFor(c.Request().Context(), id, related.MaxRelated)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// gate hides premium content from readers who have not bought the article.
// Admins and buyers see everything; everyone else gets the excerpt, or the
// first 200 characters when no excerpt is set.
func (r *ArticleRouter) gate(ctx context.Context, article domain.Article, user *domain.User) articleResponse {
	if !article.IsPremium || user.IsAdmin() {
		return articleResponse{Article: article}
	}

	if user != nil {
		purchased, err := r.store.HasPurchased(ctx, user.ID, article.ID)
		if err == nil && purchased {
			return articleResponse{Article: article}
		}
	}

	preview := article.Excerpt
	if preview == "" {
		preview = article.Content
		if len(preview) > lockedPreviewLen {
			preview = preview[:lockedPreviewLen]
		}
	}
	article.Content = preview
	return articleResponse{Article: article, Locked: true}
}

func (r *ArticleRouter) snapshotVersion(ctx context.Context, articleID uuid.UUID, changelog string) error {
	article, err := r.store.ArticleByID(ctx, articleID)
	if err != nil {
		return err
	}

	count, err := r.store.CountArticleVersions(ctx, articleID)
	if err != nil {
		return err
	}

	return r.store.CreateArticleVersion(ctx, &domain.ArticleVersion{
		ArticleID: articleID,
		Version:   fmt.Sprintf("v%d", count+1),
		Content:   article.Content,
		Changelog: changelog,
	})
}

// announcePublish tells immediate-delivery readers about a first publish.
// Fire-and-forget: a failed announcement never fails the status change.
func (r *ArticleRouter) announcePublish(article *domain.Article) {
	a := *article
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := r.mail.AnnounceArticle(ctx, &a); err != nil {
			slog.Error("Failed to announce article", "article_id", a.ID, "error", err)
		}
	}()
}

// syncSearchAndRelated mirrors the article into the search index and
// refreshes the related-articles cache in the background.
func (r *ArticleRouter) syncSearchAndRelated(article *domain.Article) {
	a := *article
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if a.Status == domain.StatusPublished {
			if err := r.indexer.IndexArticle(ctx, a); err != nil {
				slog.Error("Failed to index article", "article_id", a.ID, "error", err)
			}
			if err := r.recalc.Recalculate(ctx, a.ID); err != nil {
				slog.Error("Failed to recalculate related articles", "article_id", a.ID, "error", err)
			}
		} else {
			if err := r.indexer.DeleteArticle(ctx, a.ID); err != nil {
				slog.Error("Failed to remove article from index", "article_id", a.ID, "error", err)
			}
		}
	}()
}

// uniqueSlug appends a millisecond stamp so repeated titles never collide.
func uniqueSlug(title string) string {
	return fmt.Sprintf("%s-%d", stringsutil.Slugify(title), time.Now().UnixMilli())
}
