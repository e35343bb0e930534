package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/email"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/labstack/echo/v4"
)

type CommentRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
	mail   *email.Service
}

func NewCommentRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager, mail *email.Service) *CommentRouter {
	return &CommentRouter{e: e, store: store, tokens: tokens, mail: mail}
}

func (r *CommentRouter) Bind() {
	r.e.GET("/api/articles/:id/comments", r.byArticle)
	r.e.POST("/api/articles/:id/comments", r.create, auth.OptionalAuthenticate(r.tokens, r.store))
	r.e.POST("/api/comments/:id/like", r.like)

	authed := r.e.Group("/api/comments", auth.Authenticate(r.tokens, r.store))
	authed.PUT("/:id", r.update)
	authed.DELETE("/:id", r.delete)

	admin := r.e.Group("/api/admin/comments", auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
	admin.GET("", r.list)
	admin.GET("/pending", r.pending)
	admin.PATCH("/:id/moderate", r.moderate)
}

func (r *CommentRouter) byArticle(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	comments, err := r.store.CommentsByArticle(c.Request().Context(), articleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// create accepts comments from both logged-in users and anonymous visitors.
// Everything lands unapproved and waits for moderation, except comments by
// admins which go live immediately.
func (r *CommentRouter) create(c echo.Context) error {
	articleID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	comment := &domain.Comment{
		ArticleID: articleID,
		Content:   req.Content,
		Approved:  user.IsAdmin(),
	}
	if user != nil {
		comment.UserID = &user.ID
		comment.Name = user.Name
		comment.Email = user.Email
	} else {
		if req.Name == "" {
			return apperr.NewValidation("Name is required for anonymous comments")
		}
		comment.Name = req.Name
		comment.Email = req.Email
	}

	ctx := c.Request().Context()
	var parent *domain.Comment
	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return apperr.NewValidation("Invalid parentId")
		}
		parent, err = r.store.CommentByID(ctx, parentID)
		if err != nil {
			return err
		}
		if parent.ArticleID != articleID {
			return apperr.NewValidation("Parent comment belongs to another article")
		}
		comment.ParentID = &parent.ID
	}

	if err := r.store.CreateComment(ctx, comment); err != nil {
		return err
	}
	if comment.Approved {
		if err := r.store.AdjustArticleComments(ctx, articleID, 1); err != nil {
			slog.Error("Failed to bump comment count", "article_id", articleID, "error", err)
		}
	}

	if parent != nil {
		r.notifyReply(parent, comment)
	}
	return c.JSON(http.StatusCreated, comment)
}

func (r *CommentRouter) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateCommentRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := r.store.CommentByID(ctx, id)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if !r.canTouch(user, comment) {
		return apperr.NewForbidden("Cannot edit another user's comment")
	}

	if err := r.store.UpdateCommentContent(ctx, id, req.Content); err != nil {
		return err
	}
	comment.Content = req.Content
	return c.JSON(http.StatusOK, comment)
}

func (r *CommentRouter) delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := r.store.CommentByID(ctx, id)
	if err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if !r.canTouch(user, comment) {
		return apperr.NewForbidden("Cannot delete another user's comment")
	}

	if err := r.store.DeleteComment(ctx, id); err != nil {
		return err
	}
	if comment.Approved {
		if err := r.store.AdjustArticleComments(ctx, comment.ArticleID, -1); err != nil {
			slog.Error("Failed to drop comment count", "article_id", comment.ArticleID, "error", err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *CommentRouter) like(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := r.store.IncrementCommentLikes(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *CommentRouter) list(c echo.Context) error {
	var approved *bool
	if raw := c.QueryParam("approved"); raw != "" {
		v := raw == "true"
		approved = &v
	}

	comments, err := r.store.ListComments(c.Request().Context(), approved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (r *CommentRouter) pending(c echo.Context) error {
	pending := false
	comments, err := r.store.ListComments(c.Request().Context(), &pending)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

func (r *CommentRouter) moderate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ModerateCommentRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	comment, err := r.store.CommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.Approved == req.Approved {
		return c.JSON(http.StatusOK, comment)
	}

	if err := r.store.SetCommentApproved(ctx, id, req.Approved); err != nil {
		return err
	}

	delta := 1
	if !req.Approved {
		delta = -1
	}
	if err := r.store.AdjustArticleComments(ctx, comment.ArticleID, delta); err != nil {
		slog.Error("Failed to adjust comment count", "article_id", comment.ArticleID, "error", err)
	}

	comment.Approved = req.Approved
	return c.JSON(http.StatusOK, comment)
}

func (r *CommentRouter) canTouch(user *domain.User, comment *domain.Comment) bool {
	if user.IsAdmin() {
		return true
	}
	return comment.UserID != nil && *comment.UserID == user.ID
}

// notifyReply tells the parent commenter about the reply, in-app always and
// by mail when their preferences ask for immediate delivery.
func (r *CommentRouter) notifyReply(parent, reply *domain.Comment) {
	if parent.UserID == nil {
		return
	}
	if reply.UserID != nil && *reply.UserID == *parent.UserID {
		return
	}

	userID := *parent.UserID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		n := &domain.Notification{
			UserID:  userID,
			Type:    domain.NotificationCommentReply,
			Title:   "New reply to your comment",
			Message: reply.Name + " replied to your comment",
		}
		if err := r.store.CreateNotification(ctx, n); err != nil {
			slog.Error("Failed to create reply notification", "user_id", userID, "error", err)
			return
		}

		sub, err := r.store.EmailSubscriptionByUser(ctx, userID)
		if err != nil || !sub.Active || sub.Frequency != domain.FrequencyImmediate {
			return
		}
		if err := r.mail.NotifyByEmail(sub.Email, n); err != nil {
			slog.Error("Failed to mail reply notification", "user_id", userID, "error", err)
		}
	}()
}
