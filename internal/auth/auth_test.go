package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/inkpress/inkpress/internal/apperr"
	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/domain"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	users map[uuid.UUID]*domain.User
}

func (s *stubLoader) UserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NewNotFound("User not found")
	}
	return u, nil
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	tm := auth.NewTokenManager("test-secret")
	user := &domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	token, expiresAt, err := tm.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(user.CreatedAt))

	id, role, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	token, _, err := auth.NewTokenManager("secret-a").Issue(user)
	require.NoError(t, err)

	_, _, err = auth.NewTokenManager("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.True(t, auth.CheckPassword(hash, "correct-horse"))
	assert.False(t, auth.CheckPassword(hash, "wrong-horse"))
}

func TestAuthenticate(t *testing.T) {
	tm := auth.NewTokenManager("test-secret")
	user := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
	loader := &stubLoader{users: map[uuid.UUID]*domain.User{user.ID: user}}

	e := echo.New()
	handler := auth.Authenticate(tm, loader)(func(c echo.Context) error {
		got := auth.CurrentUser(c)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
		return c.NoContent(http.StatusOK)
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := tm.Issue(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		err = handler(e.NewContext(req, rec))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		err := handler(e.NewContext(req, rec))
		var ua *apperr.UnauthorizedError
		require.ErrorAs(t, err, &ua)
	})

	t.Run("deleted user", func(t *testing.T) {
		ghost := &domain.User{ID: uuid.New(), Role: domain.RoleUser}
		token, _, err := tm.Issue(ghost)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()

		err = handler(e.NewContext(req, rec))
		var ua *apperr.UnauthorizedError
		require.ErrorAs(t, err, &ua)
	})
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	handler := auth.RequireAdmin()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("auth.user", &domain.User{ID: uuid.New(), Role: domain.RoleUser})

	err := handler(c)
	var fb *apperr.ForbiddenError
	require.ErrorAs(t, err, &fb)
}
