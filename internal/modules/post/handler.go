package post

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
	posts := v1.Group("/posts")
	{
		posts.GET("/all", h.List)
		posts.GET("/:postId", h.Get)
	}

	admin := posts.Group("", middleware.AdminOnly())
	{
		admin.POST("/announcement", h.CreateAnnouncement)
		admin.POST("/event", h.CreateEvent)
		admin.PUT("/announcement/:postId", h.UpdateAnnouncement)
	}
}

// CreateAnnouncement publishes an announcement.
// @Summary	Create announcement
// @Tags		Posts
// @Security	BearerAuth
// @Param		request	body	AnnouncementRequest	true	"title and content"
// @Success	201	{object}	PostResponse
// @Failure	400	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Router		/posts/announcement [POST]
func (h *Handler) CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	post, err := h.svc.CreateAnnouncement(c.Request.Context(), p.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toPostResponse(post))
}

// CreateEvent publishes an event with a start and end date.
// @Summary	Create event
// @Tags		Posts
// @Security	BearerAuth
// @Param		request	body	EventRequest	true	"title, content, startDate and endDate (yyyy-MM-dd HH:mm)"
// @Success	201	{object}	PostResponse
// @Failure	400	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Router		/posts/event [POST]
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	post, err := h.svc.CreateEvent(c.Request.Context(), p.ID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toPostResponse(post))
}

// UpdateAnnouncement rewrites the title and content of an announcement.
// @Summary	Update announcement
// @Tags		Posts
// @Security	BearerAuth
// @Param		postId	path	int	true	"post id"
// @Param		request	body	AnnouncementRequest	true	"title and content"
// @Success	200	{object}	PostResponse
// @Failure	404	{object}	map[string]interface{}
// @Router		/posts/announcement/{postId} [PUT]
func (h *Handler) UpdateAnnouncement(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("postId"))
	if !ok {
		response.Fail(c, apperr.PostNotFound)
		return
	}

	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	post, err := h.svc.UpdateAnnouncement(c.Request.Context(), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, toPostResponse(post))
}

// Get returns a single post.
// @Summary	Get post
// @Tags		Posts
// @Security	BearerAuth
// @Param		postId	path	int	true	"post id"
// @Success	200	{object}	PostResponse
// @Failure	404	{object}	map[string]interface{}
// @Router		/posts/{postId} [GET]
func (h *Handler) Get(c *gin.Context) {
	id, ok := utils.ParseID(c.Param("postId"))
	if !ok {
		response.Fail(c, apperr.PostNotFound)
		return
	}

	post, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, toPostResponse(post))
}

// List returns posts newest first.
// @Summary	List posts
// @Tags		Posts
// @Security	BearerAuth
// @Param		page	query	int	false	"zero-based page"
// @Param		size	query	int	false	"page size (default 20)"
// @Success	200	{object}	map[string]interface{}
// @Router		/posts/all [GET]
func (h *Handler) List(c *gin.Context) {
	page, size := utils.PageParams(c.Query("page"), c.Query("size"), DefaultPageSize)

	result, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
