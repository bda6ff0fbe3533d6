package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"piq/internal/domain"
	"piq/internal/pkg/jwt"
	"piq/internal/repository"
)

const testSecret = "middleware-test-secret-0123456789"

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newIssuer() (*jwt.Issuer, *jwt.Validator) {
	codec := jwt.NewCodec(testSecret, "piq")
	return jwt.NewIssuer(codec, time.Hour, 24*time.Hour), jwt.NewValidator(codec)
}

func newRouter(validator TokenValidator, users UserLookup, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	public := DefaultPublicPaths()

	router := gin.New()
	router.Use(Authenticate(validator, users, public))
	router.Use(extra...)

	handler := func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		fromCtx, _ := PrincipalFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"user_id":       p.ID,
			"roles":         c.GetStringSlice("roles"),
			"same":          fromCtx == p,
		})
	}
	router.GET("/api/v1/users/profiles", handler)
	router.GET("/api/v1/users/profiles/me", handler)
	router.GET("/api/v1/posts/all", handler)
	return router
}

func do(router http.Handler, path, authHeader string) (*httptest.ResponseRecorder, map[string]any) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func activeUser() *domain.User {
	return &domain.User{ID: 42, Email: "a@b.kz", IsActive: true, Roles: []domain.Role{domain.RoleUser, domain.RoleAdmin}}
}

func TestAuthenticate_ValidToken_UsesLiveRoles(t *testing.T) {
	issuer, validator := newIssuer()
	users := &mockUsers{}
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(activeUser(), nil)

	// the token claims only ROLE_USER; the stored identity has both roles
	token, err := issuer.IssueAccessToken(jwt.Subject{ID: 42, Email: "a@b.kz", Roles: []string{"ROLE_USER"}})
	require.NoError(t, err)

	w, body := do(newRouter(validator, users), "/api/v1/users/profiles/me", "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["authenticated"])
	assert.EqualValues(t, 42, body["user_id"])
	assert.Equal(t, []any{"ROLE_USER", "ROLE_ADMIN"}, body["roles"])
	assert.Equal(t, true, body["same"])
	users.AssertExpectations(t)
}

func TestAuthenticate_NoHeader_ContinuesUnauthenticated(t *testing.T) {
	_, validator := newIssuer()
	users := &mockUsers{}

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearerabc", "Token abc"} {
		w, body := do(newRouter(validator, users), "/api/v1/posts/all", header)
		assert.Equal(t, http.StatusOK, w.Code, header)
		assert.Equal(t, false, body["authenticated"], header)
	}
	users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticate_LowercaseScheme(t *testing.T) {
	issuer, validator := newIssuer()
	users := &mockUsers{}
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(activeUser(), nil)

	token, err := issuer.IssueAccessToken(jwt.Subject{ID: 42, Email: "a@b.kz"})
	require.NoError(t, err)

	_, body := do(newRouter(validator, users), "/api/v1/posts/all", "bearer "+token)
	assert.Equal(t, true, body["authenticated"])
}

func TestAuthenticate_PublicPathSkipsToken(t *testing.T) {
	_, validator := newIssuer()
	users := &mockUsers{}

	w, body := do(newRouter(validator, users), "/api/v1/users/profiles", "Bearer garbage")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["authenticated"])
}

func TestAuthenticate_InvalidTokens(t *testing.T) {
	issuer, validator := newIssuer()
	expiredIssuer := jwt.NewIssuer(jwt.NewCodec(testSecret, "piq"), time.Minute, time.Minute).
		WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
	otherIssuer := jwt.NewIssuer(jwt.NewCodec("some-other-secret-0123456789abcdef", "piq"), time.Hour, time.Hour)

	expired, err := expiredIssuer.IssueAccessToken(jwt.Subject{ID: 1, Email: "a@b.kz"})
	require.NoError(t, err)
	forged, err := otherIssuer.IssueAccessToken(jwt.Subject{ID: 1, Email: "a@b.kz"})
	require.NoError(t, err)
	refresh, err := issuer.IssueRefreshToken(jwt.Subject{ID: 1, Email: "a@b.kz"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
		code   string
		error  string
	}{
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED", "Unauthorized"},
		{"bad signature", "Bearer " + forged, http.StatusUnauthorized, "INVALID_SIGNATURE", "Unauthorized"},
		{"malformed", "Bearer not-a-jwt", http.StatusUnauthorized, "MALFORMED_TOKEN", "Unauthorized"},
		{"refresh token as bearer", "Bearer " + refresh, http.StatusUnauthorized, "UNSUPPORTED_TOKEN", "Unauthorized"},
		{"blank token", "Bearer   ", http.StatusBadRequest, "MISSING_TOKEN", "Bad Request"},
		{"scheme only", "Bearer", http.StatusBadRequest, "MISSING_TOKEN", "Bad Request"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockUsers{}
			router := newRouter(validator, users)
			router.GET("/api/v1/never", func(c *gin.Context) { t.Fatal("handler must not run") })

			w, body := do(router, "/api/v1/never", tc.header)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, body["code"])
			assert.EqualValues(t, tc.status, body["status"])
			assert.Equal(t, tc.error, body["error"])
			assert.Equal(t, "/api/v1/never", body["path"])
			users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthenticate_UnknownAndDisabledIdentity(t *testing.T) {
	issuer, validator := newIssuer()
	token, err := issuer.IssueAccessToken(jwt.Subject{ID: 42, Email: "a@b.kz"})
	require.NoError(t, err)

	users := &mockUsers{}
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(nil, repository.ErrNotFound).Once()
	w, body := do(newRouter(validator, users), "/api/v1/posts/all", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", body["code"])

	disabled := activeUser()
	disabled.IsActive = false
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(disabled, nil).Once()
	w, body = do(newRouter(validator, users), "/api/v1/posts/all", "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "DISABLED_ACCOUNT", body["code"])

	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(nil, errors.New("db down")).Once()
	w, body = do(newRouter(validator, users), "/api/v1/posts/all", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
}

func TestRequireAuthenticated(t *testing.T) {
	_, validator := newIssuer()
	router := newRouter(validator, &mockUsers{}, RequireAuthenticated(DefaultPublicPaths()))

	w, body := do(router, "/api/v1/users/profiles/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", body["code"])

	w, _ = do(router, "/api/v1/users/profiles", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	issuer, validator := newIssuer()
	token, err := issuer.IssueAccessToken(jwt.Subject{ID: 42, Email: "a@b.kz"})
	require.NoError(t, err)

	plain := activeUser()
	plain.Roles = []domain.Role{domain.RoleUser}

	users := &mockUsers{}
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(plain, nil).Once()
	users.On("GetByEmail", mock.Anything, "a@b.kz").Return(activeUser(), nil).Once()

	router := newRouter(validator, users)
	router.POST("/api/v1/posts/announcement", AdminOnly(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/posts/announcement", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		return w
	}

	w := send()
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCESS_DENIED")

	w = send()
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/posts/announcement", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPublicPaths(t *testing.T) {
	p := DefaultPublicPaths()

	assert.True(t, p.Match("/api/v1/auth/login"))
	assert.True(t, p.Match("/api/v1/auth/login/"))
	assert.True(t, p.Match("/uploads/images/2025/01/01/a.png"))
	assert.True(t, p.Match("/uploads"))
	assert.True(t, p.Match("/health"))
	assert.False(t, p.Match("/api/v1/auth/logout"))
	assert.False(t, p.Match("/api/v1/users/profiles/me"))
	assert.False(t, p.Match("/uploadsx"))

	var none *PublicPaths
	assert.False(t, none.Match("/health"))
}
