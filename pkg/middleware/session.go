package middleware

import (
	"net/http"
	"strconv"

	"kumarket/marketplace-api/internal/service"
	"kumarket/marketplace-api/internal/session"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	identityKey = "identity"
	profileKey  = "profile"
)

// NewSessionMiddleware resolves the session cookie into the caller's
// identity. Sessions of users that no longer exist are destroyed and the
// request continues anonymously. It never rejects a request on its own.
func NewSessionMiddleware(sm *scs.SessionManager, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		ctx := c.Request.Context()

		userID := sm.GetInt64(ctx, session.KeyUserID)
		if userID <= 0 {
			c.Next()
			return
		}

		id, profile, err := auth.Identify(ctx, uint(userID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Internal server error",
			})

			zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if id == nil {
			if err := sm.Destroy(ctx); err != nil {
				zap.L().Warn("Failed to destroy stale session", zap.Error(err), zap.String("requestID", requestID))
			}

			c.Next()
			return
		}

		c.Set(identityKey, id)
		c.Set(profileKey, profile)
		c.Set("userID", strconv.FormatUint(uint64(id.UserID), 10))
		c.Next()
	}
}

// Identity returns the caller resolved by NewSessionMiddleware, nil when
// anonymous
func Identity(c *gin.Context) *service.Identity {
	if v, ok := c.Get(identityKey); ok {
		return v.(*service.Identity)
	}

	return nil
}

// Profile returns the public profile of the caller, nil when anonymous
func Profile(c *gin.Context) *service.Profile {
	if v, ok := c.Get(profileKey); ok {
		return v.(*service.Profile)
	}

	return nil
}
