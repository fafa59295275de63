// Package respond writes the JSON envelope shared by every endpoint
package respond

import (
	"errors"
	"net/http"

	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OK writes {success: true} merged with fields
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}

	c.JSON(http.StatusOK, body)
}

// Fail writes {success: false, message}. Failures always use status 200 so
// clients only need to look at the body.
func Fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": false,
		"message": message,
	})
}

// Error maps err to a client message. Errors without a known kind are logged
// and hidden behind a generic message.
func Error(c *gin.Context, err error) {
	if msg, ok := Message(err); ok {
		Fail(c, msg)
		return
	}

	requestID := c.GetString("requestID")
	zap.L().Error("Request failed", zap.Error(err), zap.String("requestID", requestID))
	Fail(c, "Internal server error")
}

// Message returns the client facing text for err
func Message(err error) (string, bool) {
	var ve *service.ValidationError

	switch {
	case errors.As(err, &ve):
		return capitalize(ve.Message), true
	case middleware.IsBodyTooLarge(err):
		return "Request body size exceeds limit", true
	case errors.Is(err, service.ErrUnauthenticated):
		return "Login required", true
	case errors.Is(err, service.ErrForbidden):
		return "Permission denied", true
	case errors.Is(err, service.ErrNotFound):
		return capitalize(err.Error()), true
	case errors.Is(err, service.ErrInvalidDomain),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrInvalidCredentials):
		return capitalize(err.Error()), true
	}

	return "", false
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}

	return string(s[0]-'a'+'A') + s[1:]
}
