package image

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
	images := v1.Group("/images")
	{
		images.POST("/upload", h.Upload)
		images.POST("/:imageId/delete", h.Delete)
		images.PUT("/:imageId/set-main", h.SetMain)
	}
}

// Upload stores a profile image.
// @Summary	Upload image
// @Tags		Images
// @Security	BearerAuth
// @Accept		multipart/form-data
// @Param		imageFile	formData	file	true	"image file"
// @Success	201	{object}	ImageResponse
// @Failure	400	{object}	map[string]interface{}
// @Failure	500	{object}	map[string]interface{}
// @Router		/images/upload [POST]
func (h *Handler) Upload(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}

	fh, err := c.FormFile(FormField)
	if err != nil {
		response.Fail(c, apperr.EmptyFile)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Fail(c, apperr.Wrap(apperr.FileUploadFailed, err))
		return
	}
	defer f.Close()

	img, err := h.svc.Upload(c.Request.Context(), p.ID, f, fh.Size)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toImageResponse(img))
}

// Delete removes one of the current user's images.
// @Summary	Delete image
// @Tags		Images
// @Security	BearerAuth
// @Param		imageId	path	int	true	"image id"
// @Success	200	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Failure	404	{object}	map[string]interface{}
// @Router		/images/{imageId}/delete [POST]
func (h *Handler) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}
	id, ok := utils.ParseID(c.Param("imageId"))
	if !ok {
		response.Fail(c, apperr.ImageNotFound)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p.ID, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "image deleted"})
}

// SetMain marks an image as the main profile image.
// @Summary	Set main image
// @Tags		Images
// @Security	BearerAuth
// @Param		imageId	path	int	true	"image id"
// @Success	200	{object}	map[string]interface{}
// @Failure	403	{object}	map[string]interface{}
// @Failure	404	{object}	map[string]interface{}
// @Router		/images/{imageId}/set-main [PUT]
func (h *Handler) SetMain(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Fail(c, apperr.AuthenticationRequired)
		return
	}
	id, ok := utils.ParseID(c.Param("imageId"))
	if !ok {
		response.Fail(c, apperr.ImageNotFound)
		return
	}

	if err := h.svc.SetMain(c.Request.Context(), p.ID, id); err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "main image updated"})
}
