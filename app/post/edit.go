package post

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type editBody struct {
	Status string `json:"status"`
}

func PostEdit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, ok := postID(c)
	if !ok {
		respond.Error(c, service.ErrPostNotFound)
		return
	}

	var data editBody
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&data); err != nil {
			if middleware.IsBodyTooLarge(err) {
				respond.Error(c, err)
				return
			}

			respond.Fail(c, "Invalid request body")
			zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	if err := d.Listings.UpdatePost(c.Request.Context(), id, data.Status, middleware.Identity(c)); err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, nil)
}
