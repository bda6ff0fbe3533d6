package middleware

import (
	"github.com/gin-gonic/gin"

	"piq/internal/domain"
	"piq/internal/pkg/apperr"
	"piq/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Abort(c, apperr.AuthenticationRequired)
			return
		}
		if !p.HasRole(role) {
			response.Abort(c, apperr.AccessDenied)
			return
		}
		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
