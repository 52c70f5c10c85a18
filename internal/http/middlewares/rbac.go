package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole gates an endpoint on the authenticated role; the role check
// runs before any handler state is touched.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Access denied",
				},
			})
			return
		}

		c.Next()
	}
}
