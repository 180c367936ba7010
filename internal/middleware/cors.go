package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playpool/billiard/internal/config"
	"go.uber.org/zap"
)

// CORS returns a CORS middleware configured for the environment.
func CORS(cfg *config.Config, log *zap.Logger) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length", "X-Cache", "X-Run-ID",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Environment == "development" {
		corsConfig.AllowOrigins = []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	} else {
		corsConfig.AllowOrigins = AllowedOrigins(cfg)
	}
	if len(corsConfig.AllowOrigins) == 0 {
		// No frontend configured: refuse every cross-origin request.
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	}
	log.Info("[CORS] configured",
		zap.String("environment", cfg.Environment),
		zap.Strings("origins", corsConfig.AllowOrigins))

	return cors.New(corsConfig)
}

// AllowedOrigins lists the production origins: the configured frontend only.
func AllowedOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return nil
	}
	return []string{strings.TrimRight(cfg.FrontendURL, "/")}
}

// WebSocketOrigin rejects websocket upgrades from unknown origins outside
// development.
func WebSocketOrigin(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		allowed := false
		if cfg.Environment == "development" {
			allowed = strings.HasPrefix(origin, "http://localhost:") ||
				strings.HasPrefix(origin, "http://127.0.0.1:")
		} else {
			for _, o := range AllowedOrigins(cfg) {
				if origin == o {
					allowed = true
					break
				}
			}
		}

		if !allowed {
			c.AbortWithStatusJSON(403, gin.H{"error": "forbidden", "message": "websocket origin not allowed"})
			return
		}
		c.Next()
	}
}
