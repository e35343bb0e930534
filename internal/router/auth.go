package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/inkpress/inkpress/internal/dto"
	"github.com/inkpress/inkpress/internal/storage/pg"
	"github.com/inkpress/inkpress/internal/validate"
	"github.com/inkpress/inkpress/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	e      *echo.Echo
	store  *pg.Store
	tokens *auth.TokenManager
}

func NewAuthRouter(e *echo.Echo, store *pg.Store, tokens *auth.TokenManager) *AuthRouter {
	return &AuthRouter{e: e, store: store, tokens: tokens}
}

func (r *AuthRouter) Bind() {
	g := r.e.Group("/api/auth")
	g.POST("/register", r.register)
	g.POST("/login", r.login)
	g.POST("/logout", r.logout)

	authed := g.Group("", auth.Authenticate(r.tokens, r.store))
	authed.GET("/me", r.me)
	authed.PUT("/me", r.updateProfile)
	authed.PUT("/me/password", r.changePassword)

	r.e.GET("/api/admin/users", r.listUsers,
		auth.Authenticate(r.tokens, r.store), auth.RequireAdmin())
}

func (r *AuthRouter) listUsers(c echo.Context) error {
	var page pagination.Request
	if err := validate.BindQuery(c, &page); err != nil {
		return err
	}
	page.Normalize(pagination.PageDefaultSize)

	users, total, err := r.store.ListUsers(c.Request().Context(), page.Limit, page.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"users":      users,
		"pagination": pagination.NewMeta(page, total),
	})
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

func (r *AuthRouter) register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}
	if err := r.store.CreateUser(c.Request().Context(), user); err != nil {
		return err
	}

	resp, err := r.openSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (r *AuthRouter) login(c echo.Context) error {
	var req dto.LoginRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user, err := r.store.UserByEmail(c.Request().Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return apperr.NewUnauthorized("Invalid email or password")
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return apperr.NewUnauthorized("Invalid email or password")
	}

	resp, err := r.openSession(c, user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

func (r *AuthRouter) logout(c echo.Context) error {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		if err := r.store.DeleteSessionByToken(c.Request().Context(), token); err != nil {
			return err
		}
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *AuthRouter) me(c echo.Context) error {
	return c.JSON(http.StatusOK, auth.CurrentUser(c))
}

func (r *AuthRouter) updateProfile(c echo.Context) error {
	var req dto.UpdateProfileRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user := auth.CurrentUser(c)
	if req.Name != nil {
		if err := r.store.UpdateUserName(ctx, user.ID, *req.Name); err != nil {
			return err
		}
		user.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := r.store.UpdateUserEmail(ctx, user.ID, email); err != nil {
			return err
		}
		user.Email = email
	}
	return c.JSON(http.StatusOK, user)
}

func (r *AuthRouter) changePassword(c echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := validate.Bind(c, &req); err != nil {
		return err
	}

	user := auth.CurrentUser(c)
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperr.NewUnauthorized("Current password is incorrect")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := r.store.UpdateUserPassword(c.Request().Context(), user.ID, hash); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *AuthRouter) openSession(c echo.Context, user *domain.User) (*sessionResponse, error) {
	token, expiresAt, err := r.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := r.store.CreateSession(c.Request().Context(), session); err != nil {
		return nil, err
	}

	return &sessionResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
