package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin stops the chain for anyone but administrators. It must run
// after NewSessionMiddleware and before any response cache.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id == nil || !id.IsAdmin {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Permission denied",
			})
			return
		}

		c.Next()
	}
}
