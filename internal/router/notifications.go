package router

import (
	"net/http"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type NotificationRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewNotificationRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *NotificationRouter {
	return &NotificationRouter{e: e, store: store, tokens: tokens}
}

func (r *NotificationRouter) Bind() {
	g := r.e.Group("/api/notifications", auth.Authenticate(r.tokens, r.store))
	g.GET("", r.list)
	g.GET("/unread-count", r.unreadCount)
	g.PATCH("/:id/read", r.markRead)
	g.POST("/read-all", r.markAllRead)
	g.DELETE("/:id", r.delete)
}

func (r *NotificationRouter) list(c echo.Context) error {
	var filter dto.NotificationFilter
	if err := validate.BindQuery(c, &filter); err != nil {
		return err
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}

	user := auth.CurrentUser(c)
	notifications, err := r.store.NotificationsByUser(c.Request().Context(), user.ID, filter.UnreadOnly, filter.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func (r *NotificationRouter) unreadCount(c echo.Context) error {
	user := auth.CurrentUser(c)
	count, err := r.store.UnreadNotificationCount(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": count})
}

func (r *NotificationRouter) markRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := r.store.MarkNotificationRead(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *NotificationRouter) markAllRead(c echo.Context) error {
	user := auth.CurrentUser(c)
	updated, err := r.store.MarkAllNotificationsRead(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

func (r *NotificationRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if err := r.store.DeleteNotification(c.Request().Context(), id, user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
