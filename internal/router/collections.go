package router

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type CollectionRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewCollectionRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *CollectionRouter {
	return &CollectionRouter{e: e, store: store, tokens: tokens}
}

func (r *CollectionRouter) Bind() {
	r.e.GET("/api/collections", r.list)
	r.e.GET("/api/collections/:slug", r.bySlug)

	admin := r.e.Group("/api/collections", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.POST("", r.create)
	admin.PUT("/:id", r.update)
	admin.DELETE("/:id", r.delete)
	admin.POST("/:id/articles", r.addArticle)
	admin.DELETE("/:id/articles/:articleId", r.removeArticle)
	admin.PUT("/:id/reorder", r.reorder)
}

func (r *CollectionRouter) list(c echo.Context) error {
	collections, err := r.store.ListCollections(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collections)
}

func (r *CollectionRouter) bySlug(c echo.Context) error {
	collection, err := r.store.CollectionBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collection)
}

func (r *CollectionRouter) create(c echo.Context) error {
	var req dto.CreateCollectionRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	collection := &domain.Collection{
		Title:       req.Title,
		Slug:        uniqueSlug(req.Title),
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Order:       req.Order,
	}
	if err := r.store.CreateCollection(c.Request().Context(), collection); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, collection)
}

func (r *CollectionRouter) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCollectionRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if err := r.store.UpdateCollection(ctx, id, req.Title, req.Description, req.CoverImage, req.Order); err != nil {
		return err
	}

	collection, err := r.store.CollectionByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collection)
}

func (r *CollectionRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := r.store.DeleteCollection(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *CollectionRouter) addArticle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddToCollectionRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleID, err := uuid.Parse(req.ArticleID)
	if err != nil {
		return apperr.NewValidation("Invalid articleId")
	}

	ctx := c.Request().Context()
	if err := r.store.AddArticleToCollection(ctx, id, articleID, req.Order); err != nil {
		return err
	}

	collection, err := r.store.CollectionByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, collection)
}

func (r *CollectionRouter) removeArticle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	articleID, err := pathID(c, "articleId")
	if err != nil {
		return err
	}

	if err := r.store.RemoveArticleFromCollection(c.Request().Context(), id, articleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// reorder rewrites the article order to match the submitted id sequence.
func (r *CollectionRouter) reorder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReorderCollectionRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	articleIDs := make([]uuid.UUID, 0, len(req.ArticleIDs))
	for _, raw := range req.ArticleIDs {
		articleID, err := uuid.Parse(raw)
		if err != nil {
			return apperr.NewValidation("Invalid article id in order list")
		}
		articleIDs = append(articleIDs, articleID)
	}

	ctx := c.Request().Context()
	if err := r.store.ReorderCollection(ctx, id, articleIDs); err != nil {
		return err
	}

	collection, err := r.store.CollectionByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, collection)
}
