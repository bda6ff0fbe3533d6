package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"piq/internal/config"
	"piq/internal/database"
	"piq/internal/logging"
	"piq/internal/pkg/validator"
	"piq/internal/repository"
	"piq/internal/storage"
)

type memTokens struct {
	mu      sync.Mutex
	tokens  map[string]string
	pingErr error
}

func (m *memTokens) Save(_ context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[email] = token
	return nil
}

func (m *memTokens) Find(_ context.Context, email string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[email]
	return tok, ok, nil
}

func (m *memTokens) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, email)
	return nil
}

func (m *memTokens) Ping(context.Context) error { return m.pingErr }

type suite struct {
	t      *testing.T
	srv    *Server
	tokens *memTokens
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
	Status  int             `json:"status"`
	Path    string          `json:"path"`
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterGin()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db, repository.Models()...))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "router-test-secret-0123456789abcdef",
			JWTIssuer:      "piq",
			JWTAccessTTL:   30 * time.Minute,
			RefreshTTL:     168 * time.Hour,
			CookieSameSite: "Lax",
			CookiePath:     "/",
		},
	}
	tokens := &memTokens{tokens: map[string]string{}}
	srv := New(Deps{
		Config:   cfg,
		Logger:   logging.Nop(),
		DB:       db,
		Tokens:   tokens,
		Uploader: storage.NewLocalUploader(t.TempDir(), "/uploads"),
	})
	return &suite{t: t, srv: srv, tokens: tokens}
}

func (s *suite) do(method, path string, body any, access string, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.serve(req)
}

func (s *suite) serve(req *http.Request) (*httptest.ResponseRecorder, envelope) {
	w := httptest.NewRecorder()
	s.srv.Engine.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *suite) signup(email, nickname, gender string) {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/v1/auth/signup", map[string]any{
		"email":       email,
		"nickname":    nickname,
		"password":    "abcd123!",
		"kakaoTalkId": nickname + "-kakao",
		"age":         25,
		"gender":      gender,
		"mbti":        "INFP",
		"introduce":   "hello",
	}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
}

func (s *suite) login(email, password string) (string, *http.Cookie) {
	s.t.Helper()
	w, env := s.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))

	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			return data.AccessToken, c
		}
	}
	s.t.Fatal("refresh cookie missing")
	return "", nil
}

func uploadRequest(t *testing.T, access string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("imageFile", "me.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+access)
	return req
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)

	w, _ := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	s.tokens.pingErr = errors.New("redis down")
	w, _ = s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis")
}

func TestAuthLifecycle(t *testing.T) {
	s := setupSuite(t)
	s.signup("mina@piq.kz", "mina", "FEMALE")

	access, cookie := s.login("mina@piq.kz", "abcd123!")
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 604800, cookie.MaxAge)

	w, env := s.do(http.MethodGet, "/api/v1/users/profiles/me", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "mina@piq.kz", me["email"])

	w, env = s.do(http.MethodPost, "/api/v1/auth/reissue", nil, "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/logout", nil, access)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/reissue", nil, "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REFRESH_TOKEN_NOT_FOUND", env.Code)

	// access tokens outlive logout until they expire
	w, _ = s.do(http.MethodGet, "/api/v1/users/profiles/me", nil, access)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutes(t *testing.T) {
	s := setupSuite(t)

	w, env := s.do(http.MethodGet, "/api/v1/posts/all", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Code)
	assert.Equal(t, "/api/v1/posts/all", env.Path)

	w, env = s.do(http.MethodGet, "/api/v1/posts/all", nil, "not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "MALFORMED_TOKEN", env.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/users/profiles", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/users/profiles/1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshTokenIsNotABearer(t *testing.T) {
	s := setupSuite(t)
	s.signup("mina@piq.kz", "mina", "FEMALE")
	access, cookie := s.login("mina@piq.kz", "abcd123!")

	w, env := s.do(http.MethodGet, "/api/v1/users/profiles/me", nil, cookie.Value)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNSUPPORTED_TOKEN", env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/reissue", nil, "", &http.Cookie{Name: "refreshToken", Value: access})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", env.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/profiles/me", nil)
	req.Header.Set("Authorization", "Bearer   ")
	w, env = s.serve(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_TOKEN", env.Code)
}

func TestBootstrapAdminPromotesExistingMember(t *testing.T) {
	s := setupSuite(t)
	s.signup("boss@piq.kz", "boss", "MALE")

	s.srv.Auth.BootstrapAdmin(context.Background(), true, "boss@piq.kz", "ignored123!")
	access, _ := s.login("boss@piq.kz", "abcd123!")

	w, _ := s.do(http.MethodPost, "/api/v1/posts/announcement", map[string]string{"title": "notice", "content": "body"}, access)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestPostsRequireAdmin(t *testing.T) {
	s := setupSuite(t)
	s.signup("user@piq.kz", "user", "MALE")
	userAccess, _ := s.login("user@piq.kz", "abcd123!")

	announcement := map[string]string{"title": "notice", "content": "body"}
	w, env := s.do(http.MethodPost, "/api/v1/posts/announcement", announcement, userAccess)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "ACCESS_DENIED", env.Code)

	s.srv.Auth.BootstrapAdmin(context.Background(), true, "admin@piq.kz", "admin123!")
	adminAccess, _ := s.login("admin@piq.kz", "admin123!")

	w, env = s.do(http.MethodPost, "/api/v1/posts/announcement", announcement, adminAccess)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID   int64  `json:"id"`
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "ANNOUNCEMENT", created.Type)

	w, _ = s.do(http.MethodGet, "/api/v1/posts/all?page=0&size=5", nil, userAccess)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":1`)

	w, env = s.do(http.MethodPost, "/api/v1/posts/event", map[string]string{
		"title": "e", "content": "c", "startDate": "2024-07-02 10:00", "endDate": "2024-07-01 10:00",
	}, adminAccess)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
}

func TestImagesAndProfiles(t *testing.T) {
	s := setupSuite(t)
	s.signup("mina@piq.kz", "mina", "FEMALE")
	access, _ := s.login("mina@piq.kz", "abcd123!")

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	w, env := s.serve(uploadRequest(t, access, png))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var img struct {
		ImageID     int64  `json:"imageId"`
		ImageURL    string `json:"imageUrl"`
		IsMainImage bool   `json:"isMainImage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &img))
	assert.True(t, img.IsMainImage)

	w, _ = s.do(http.MethodGet, img.ImageURL, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.Bytes())

	w, _ = s.serve(uploadRequest(t, access, []byte("plain text")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_AN_IMAGE")

	w, env = s.do(http.MethodGet, "/api/v1/users/profiles?gender=FEMALE", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		TotalCount int `json:"totalCount"`
		List       []struct {
			MainImageURL string `json:"mainImageUrl"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Equal(t, 1, list.TotalCount)
	assert.Equal(t, img.ImageURL, list.List[0].MainImageURL)

	w, _ = s.do(http.MethodGet, "/api/v1/users/profiles?gender=OTHER", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewsAndAccountDeletion(t *testing.T) {
	s := setupSuite(t)
	s.signup("mina@piq.kz", "mina", "FEMALE")
	access, cookie := s.login("mina@piq.kz", "abcd123!")

	w, env := s.do(http.MethodPost, "/api/v1/reviews", map[string]any{"title": "nice", "content": "fun night", "rate": 5}, access)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rv map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &rv))
	assert.Equal(t, "mina", rv["userName"])

	w, _ = s.do(http.MethodPost, "/api/v1/reviews", map[string]any{"title": "bad", "rate": 9}, access)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/v1/reviews", nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"size":10`)

	w, _ = s.do(http.MethodPost, "/api/v1/users/delete", nil, access)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(http.MethodGet, "/api/v1/users/profiles/me", nil, access)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Code)

	w, env = s.do(http.MethodPost, "/api/v1/auth/reissue", nil, "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REFRESH_TOKEN_NOT_FOUND", env.Code)
}
