package user

import (
	"net/http"

	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func CheckSession(c *gin.Context) {
	p := middleware.Profile(c)
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"logged_in": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logged_in": true,
		"user":      p,
	})
}
