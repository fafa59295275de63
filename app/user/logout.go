package user

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"

	"github.com/gin-gonic/gin"
)

// UserLogout clears the session whether or not anyone was logged in
func UserLogout(c *gin.Context, d *internal.Deps) {
	if err := d.Sessions.Destroy(c.Request.Context()); err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, nil)
}
