package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"piq/internal/middleware"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/response"
	"piq/internal/pkg/utils"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	users := v1.Group("/users")
	{
		users.GET("/profiles", h.ListProfiles)
		users.GET("/profiles/me", h.Me)
		users.GET("/profiles/:id", h.Profile)
		users.POST("/delete", h.Delete)
	}
}

// ListProfiles returns member profiles, optionally filtered by gender.
// @Summary	List profiles
// @Tags		Users
// @Param		gender	query	string	false	"MALE or FEMALE"
// @Success	200	{object}	ProfileList
// @Failure	400	{object}	map[string]interface{}
// @Router		/users/profiles [GET]
func (h *Handler) ListProfiles(c *gin.Context) {
	list, err := h.svc.ListProfiles(c.Request.Context(), c.Query("gender"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Me returns the current member's profile.
// @Summary	My profile
// @Tags		Users
// @Security	BearerAuth
// @Success	200	{object}	MyProfile
// @Router		/users/profiles/me [GET]
func (h *Handler) Me(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), p.ID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Profile returns another member's public profile.
// @Summary	Public profile
// @Tags		Users
// @Security	BearerAuth
// @Param		id	path	int	true	"user id"
// @Success	200	{object}	PublicProfile
// @Failure	404	{object}	map[string]interface{}
// @Router		/users/profiles/{id} [GET]
func (h *Handler) Profile(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		response.Fail(c, apperr.UserNotFound)
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// Delete removes the current member's account.
// @Summary	Delete account
// @Tags		Users
// @Security	BearerAuth
// @Success	200	{object}	map[string]interface{}
// @Router		/users/delete [POST]
func (h *Handler) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), p.ID); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "account deleted"})
}
