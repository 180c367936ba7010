package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/middleware"
	"github.com/playpool/billiard/internal/store"
	"github.com/playpool/billiard/internal/trajectory"
	"go.uber.org/zap"
)

type TokenRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Secret   string `json:"secret" binding:"required"`
}

// IssueToken exchanges client credentials for a bearer token.
func IssueToken(clients ClientAuthenticator, secret string, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TokenRequest
		if !bindJSON(c, log, &req) {
			return
		}

		client, err := clients.Authenticate(c.Request.Context(), req.ClientID, req.Secret)
		if errors.Is(err, store.ErrInvalidCredentials) {
			log.Warn("[AUTH] rejected credentials", zap.String("client", req.ClientID), zap.String("ip", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, trajectory.Body{
				Error:   trajectory.CodeUnauthorized,
				Message: "invalid client credentials",
			})
			return
		}
		if err != nil {
			respondError(c, log, err)
			return
		}

		token, exp, err := middleware.IssueToken(secret, client.ClientID, client.Scopes, ttl)
		if err != nil {
			respondError(c, log, trajectory.Internal(err))
			return
		}

		log.Info("[AUTH] token issued", zap.String("client", client.ClientID))
		c.JSON(http.StatusOK, gin.H{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_at":   exp.Format(time.RFC3339),
		})
	}
}
