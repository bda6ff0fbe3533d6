package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"piq/internal/pkg/apperr"
	"piq/internal/pkg/validator"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

// Body builds the error envelope for a classified error.
func Body(c *gin.Context, e *apperr.Error, details any) gin.H {
	body := gin.H{
		"success": false,
		"status":  e.Status,
		"error":   http.StatusText(e.Status),
		"code":    e.Code,
		"message": e.Message,
		"path":    c.Request.URL.Path,
	}
	if details != nil {
		body["details"] = details
	}
	return body
}

// Fail writes err as an error envelope. Unclassified errors become
// INTERNAL_ERROR and their text never reaches the client.
func Fail(c *gin.Context, err error) {
	e := classify(c, err)
	c.JSON(e.Status, Body(c, e, nil))
}

// Abort is Fail for middleware: the handler chain stops.
func Abort(c *gin.Context, err error) {
	e := classify(c, err)
	c.AbortWithStatusJSON(e.Status, Body(c, e, nil))
}

// BadRequest reports a binding or validation failure with per-field details.
func BadRequest(c *gin.Context, err error) {
	e := apperr.ValidationFailed
	details := validator.Details(err)
	if details == nil {
		e = apperr.WithMessage(apperr.ValidationFailed, "invalid request body")
	}
	c.JSON(e.Status, Body(c, e, details))
}

// classify attaches server-side failures to c.Errors so ErrorLogger records
// the cause.
func classify(c *gin.Context, err error) *apperr.Error {
	if e, ok := apperr.From(err); ok {
		if e.Status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		return e
	}
	_ = c.Error(err)
	return apperr.Internal
}
