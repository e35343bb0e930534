package router

import (
	"net/http"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type ProgressRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewProgressRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *ProgressRouter {
	return &ProgressRouter{e: e, store: store, tokens: tokens}
}

func (r *ProgressRouter) Bind() {
	g := r.e.Group("/api", auth.Authenticate(r.tokens, r.store))
	g.PUT("/articles/:id/progress", r.save)
	g.GET("/articles/:id/progress", r.get)
	g.DELETE("/articles/:id/progress", r.delete)
	g.GET("/reading-history", r.history)
}

// save upserts the reader's position; clients call this every few seconds
// while reading, so it sits outside the rate limit.
func (r *ProgressRouter) save(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.SaveProgressRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	progress := &domain.ReadingProgress{
		UserID:    user.ID,
		ArticleID: articleID,
		Progress:  req.Progress,
	}
	if err := r.store.UpsertReadingProgress(c.Request().Context(), progress); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

func (r *ProgressRouter) get(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	progress, err := r.store.ReadingProgressFor(c.Request().Context(), user.ID, articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, progress)
}

func (r *ProgressRouter) delete(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := r.store.DeleteReadingProgress(c.Request().Context(), user.ID, articleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *ProgressRouter) history(c echo.Context) error {
	user := auth.CurrentUser(c)
	history, err := r.store.ReadingHistory(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}
