// Package admin contains the moderation endpoints. All of them need an
// administrator session.
package admin

import (
	"strconv"

	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserList(c *gin.Context, d *internal.Deps) {
	users, err := d.Admin.ListUsers(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, gin.H{"users": users})
}

func UserDelete(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		respond.Error(c, service.ErrUserNotFound)
		return
	}

	warnings, err := d.Admin.DeleteUser(c.Request.Context(), uint(id), middleware.Identity(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Info("Admin deleted user", zap.Uint64("deletedID", id), zap.String("requestID", requestID))

	if len(warnings) > 0 {
		respond.OK(c, gin.H{"warnings": warnings})
		return
	}

	respond.OK(c, nil)
}
