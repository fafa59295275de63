package user

import (
	"kumarket/marketplace-api/app/respond"
	"kumarket/marketplace-api/internal"
	"kumarket/marketplace-api/internal/session"
	"kumarket/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	ctx := c.Request.Context()

	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		if middleware.IsBodyTooLarge(err) {
			respond.Error(c, err)
			return
		}

		respond.Fail(c, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	profile, err := d.Auth.Login(ctx, data.Email, data.Password)
	if err != nil {
		respond.Error(c, err)
		return
	}

	// New token on every login so a planted cookie can't be reused
	if err := d.Sessions.RenewToken(ctx); err != nil {
		respond.Error(c, err)
		return
	}

	// Only the id is kept, the rest is read from the user row per request
	d.Sessions.Put(ctx, session.KeyUserID, int64(profile.ID))

	zap.L().Info("User logged in", zap.Uint("userID", profile.ID), zap.String("requestID", requestID))
	respond.OK(c, gin.H{"user": profile})
}
