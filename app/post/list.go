package post

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PostList returns all listings, optionally filtered by category and a
// title/content search
func PostList(c *gin.Context, d *internal.Deps) {
	category := c.DefaultQuery("category", service.CategoryAll)
	search := c.Query("search")

	posts, err := d.Listings.ListPosts(c.Request.Context(), category, search)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, gin.H{"posts": posts})
}
