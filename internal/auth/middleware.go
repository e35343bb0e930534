package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/labstack/echo/v4"
)

const userContextKey = "auth.user"

// UserLoader resolves token subjects against live user rows so that
// deleted users are locked out immediately regardless of token expiry.
type UserLoader interface {
	UserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(tm *TokenManager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, tm, users)
			if err != nil {
				return err
			}
			if user == nil {
				return apperr.NewUnauthorized("Authentication required")
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// OptionalAuthenticate resolves the user when a token is present but lets
// anonymous requests through. Used by read endpoints that unlock premium
// content for buyers.
func OptionalAuthenticate(tm *TokenManager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolveUser(c, tm, users)
			if err == nil && user != nil {
				c.Set(userContextKey, user)
			}
			return next(c)
		}
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return apperr.NewUnauthorized("Authentication required")
			}
			if !user.IsAdmin() {
				return apperr.NewForbidden("Admin access required")
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(userContextKey).(*domain.User)
	return user
}

func resolveUser(c echo.Context, tm *TokenManager, users UserLoader) (*domain.User, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, nil
	}

	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, apperr.NewUnauthorized("Invalid authorization header")
	}

	userID, _, err := tm.Verify(tokenStr)
	if err != nil {
		return nil, apperr.NewUnauthorized("Invalid or expired token")
	}

	user, err := users.UserByID(c.Request().Context(), userID)
	if err != nil {
		return nil, apperr.NewUnauthorized("Invalid or expired token")
	}
	return user, nil
}
