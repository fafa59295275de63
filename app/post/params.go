// Package post contains the listing endpoints
package post

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func postID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}
