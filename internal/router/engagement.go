package router

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

// EngagementRouter covers likes, reactions, shares and bookmarks. Likes and
// reactions work for anonymous visitors too, keyed by IP instead of user.
type EngagementRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewEngagementRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *EngagementRouter {
	return &EngagementRouter{e: e, store: store, tokens: tokens}
}

func (r *EngagementRouter) Bind() {
	g := r.e.Group("/api/articles/:id", auth.OptionalAuthenticate(r.tokens, r.store))
	g.POST("/like", r.like)
	g.DELETE("/like", r.unlike)
	g.GET("/like", r.likeStatus)
	g.POST("/reactions", r.addReaction)
	g.GET("/reactions", r.reactionCounts)
	g.POST("/share", r.share)
	g.GET("/shares", r.shareCounts)

	authed := r.e.Group("/api", auth.Authenticate(r.tokens, r.store))
	authed.DELETE("/articles/:id/reactions/:type", r.removeReaction)
	authed.POST("/articles/:id/bookmark", r.addBookmark)
	authed.DELETE("/articles/:id/bookmark", r.removeBookmark)
	authed.GET("/bookmarks", r.bookmarks)
}

type likeResponse struct {
	Liked bool `json:"liked"`
}

func (r *EngagementRouter) like(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	inserted, err := r.store.LikeArticle(ctx, articleID, currentUserID(c), c.RealIP())
	if err != nil {
		return err
	}
	if inserted {
		if err := r.store.AdjustArticleLikes(ctx, articleID, 1); err != nil {
			slog.Error("Failed to bump like count", "article_id", articleID, "error", err)
		}
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: true})
}

func (r *EngagementRouter) unlike(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	removed, err := r.store.UnlikeArticle(ctx, articleID, currentUserID(c), c.RealIP())
	if err != nil {
		return err
	}
	if removed {
		if err := r.store.AdjustArticleLikes(ctx, articleID, -1); err != nil {
			slog.Error("Failed to drop like count", "article_id", articleID, "error", err)
		}
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: false})
}

func (r *EngagementRouter) likeStatus(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	liked, err := r.store.HasLiked(c.Request().Context(), articleID, currentUserID(c), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likeResponse{Liked: liked})
}

func (r *EngagementRouter) addReaction(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ReactionRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	reaction := &domain.Reaction{
		ArticleID: articleID,
		Type:      domain.ReactionType(req.Type),
		UserID:    currentUserID(c),
		IPAddress: c.RealIP(),
	}
	if err := r.store.AddReaction(c.Request().Context(), reaction); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reaction)
}

func (r *EngagementRouter) removeReaction(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	reactionType := domain.ReactionType(c.Param("type"))
	user := auth.CurrentUser(c)
	if err := r.store.RemoveReaction(c.Request().Context(), articleID, reactionType, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *EngagementRouter) reactionCounts(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	counts, err := r.store.ReactionCounts(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

func (r *EngagementRouter) share(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ShareRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	share := &domain.Share{
		ArticleID: articleID,
		Platform:  domain.SharePlatform(req.Platform),
		UserID:    currentUserID(c),
	}
	if err := r.store.AddShare(ctx, share); err != nil {
		return err
	}
	if err := r.store.IncrementArticleShares(ctx, articleID); err != nil {
		slog.Error("Failed to bump share count", "article_id", articleID, "error", err)
	}
	return c.JSON(http.StatusCreated, share)
}

func (r *EngagementRouter) shareCounts(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	counts, err := r.store.ShareCounts(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

func (r *EngagementRouter) addBookmark(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := r.store.AddBookmark(c.Request().Context(), user.ID, articleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

func (r *EngagementRouter) removeBookmark(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := r.store.RemoveBookmark(c.Request().Context(), user.ID, articleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *EngagementRouter) bookmarks(c echo.Context) error {
	user := auth.CurrentUser(c)
	bookmarks, err := r.store.BookmarksByUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookmarks)
}

func currentUserID(c echo.Context) *uuid.UUID {
	if user := auth.CurrentUser(c); user != nil {
		return &user.ID
	}
	return nil
}
