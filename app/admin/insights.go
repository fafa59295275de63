package admin

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func Insights(c *gin.Context, d *internal.Deps) {
	in, err := d.Admin.Insights(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respond.Error(c, err)

		// Keeps the failure out of the response cache
		c.Abort()
		return
	}

	respond.OK(c, gin.H{"insights": in})
}
