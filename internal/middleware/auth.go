package middleware

import (
	"net/http"

	"github.com/act-collective/intelligence-service/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware creates middleware for service authentication on the
// mutating endpoints. User-level authentication and permissions live in
// the platform gateway, not here.
func AuthMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Auth.Enabled {
			c.Next()
			return
		}

		serviceKey := c.GetHeader("X-Service-Key")
		if serviceKey == "" {
			logger.Warn("Missing service key")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Service key required"})
			c.Abort()
			return
		}

		if serviceKey != cfg.Auth.ServiceKey {
			logger.Warn("Invalid service key")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid service key"})
			c.Abort()
			return
		}

		c.Next()
	}
}
