package post

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"

	"github.com/gin-gonic/gin"
)

func PostFetch(c *gin.Context, d *internal.Deps) {
	id, ok := postID(c)
	if !ok {
		respond.Error(c, service.ErrPostNotFound)
		return
	}

	post, err := d.Listings.GetPost(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, gin.H{"post": post})
}
