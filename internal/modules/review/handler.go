package review

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"piq/internal/domain"
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
	reviews := v1.Group("/reviews")
	{
		reviews.GET("", h.List)
		reviews.POST("", middleware.RequireRole(domain.RoleUser), h.Create)
	}
}

// Create writes a review as the current user.
// @Summary	Write a review
// @Tags		Reviews
// @Security	BearerAuth
// @Param		request	body	CreateReviewRequest	true	"title, content and rate"
// @Success	201	{object}	ReviewResponse
// @Failure	400	{object}	map[string]interface{}
// @Failure	401	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Router		/reviews [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), p.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toReviewResponse(*rv))
}

// List returns reviews newest first.
// @Summary	List reviews
// @Tags		Reviews
// @Security	BearerAuth
// @Param		page	query	int	false	"zero-based page"
// @Param		size	query	int	false	"page size (default 10)"
// @Success	200	{object}	map[string]interface{}
// @Router		/reviews [GET]
func (h *Handler) List(c *gin.Context) {
	page, size := utils.PageParams(c.Query("page"), c.Query("size"), DefaultPageSize)

	result, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
