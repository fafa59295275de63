package post

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func PostDelete(c *gin.Context, d *internal.Deps) {
	id, ok := postID(c)
	if !ok {
		respond.Error(c, service.ErrPostNotFound)
		return
	}

	warnings, err := d.Listings.DeletePost(c.Request.Context(), id, middleware.Identity(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	if len(warnings) > 0 {
		respond.OK(c, gin.H{"warnings": warnings})
		return
	}

	respond.OK(c, nil)
}
