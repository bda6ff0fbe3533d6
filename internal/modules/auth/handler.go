package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"piq/internal/middleware"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/response"
)

const RefreshCookieName = "refreshToken"

// CookieConfig describes the refresh token cookie.
type CookieConfig struct {
	Path     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	cookie  CookieConfig
}

// NewHandler creates a new auth handler with injected service
func NewHandler(service *Service, cookie CookieConfig) *Handler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &Handler{service: service, cookie: cookie}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/signup", h.SignUp)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/reissue", h.Reissue)
		authGroup.POST("/logout", h.Logout)
	}
}

// SignUp registers a new member.
// @Summary	Sign up
// @Tags		Auth
// @Param		request	body	SignUpRequest	true	"profile and credentials"
// @Success	200	{object}	map[string]interface{}
// @Failure	400	{object}	map[string]interface{}
// @Failure	409	{object}	map[string]interface{}
// @Router		/auth/signup [POST]
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	user, err := h.service.SignUp(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "signup completed",
		"user":    toUserResponse(user),
	})
}

// Login returns an access token in the body and sets the refresh cookie.
// @Summary	Log in
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"email and password"
// @Success	200	{object}	TokenResponse
// @Failure	401	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Failure	404	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Fail(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, int(h.cookie.MaxAge.Seconds()))
	response.Success(c, http.StatusOK, TokenResponse{AccessToken: result.AccessToken})
}

// Reissue exchanges the refresh cookie for a new access token.
// @Summary	Reissue access token
// @Tags		Auth
// @Success	200	{object}	TokenResponse
// @Failure	400	{object}	map[string]interface{}
// @Failure	401	{object}	map[string]interface{}
// @Failure	404	{object}	map[string]interface{}
// @Router		/auth/reissue [POST]
func (h *Handler) Reissue(c *gin.Context) {
	token, err := c.Cookie(RefreshCookieName)
	if err != nil {
		response.Fail(c, apperr.MissingToken)
		return
	}

	result, err := h.service.Reissue(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if result.RefreshToken != "" {
		h.setRefreshCookie(c, result.RefreshToken, int(h.cookie.MaxAge.Seconds()))
	}
	response.Success(c, http.StatusOK, TokenResponse{AccessToken: result.AccessToken})
}

// Logout deletes the stored refresh token and clears the cookie.
// @Summary	Log out
// @Tags		Auth
// @Security	BearerAuth
// @Success	200	{object}	map[string]interface{}
// @Router		/auth/logout [POST]
func (h *Handler) Logout(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}

	if err := h.service.Logout(c.Request.Context(), p.Email); err != nil {
		response.Fail(c, err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// setRefreshCookie writes the cookie; a negative maxAge clears it.
func (h *Handler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(RefreshCookieName, value, maxAge, h.cookie.Path, "", h.cookie.Secure, true)
}
