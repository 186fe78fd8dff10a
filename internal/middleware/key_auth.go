package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JobAuthMiddleware creates a Gin middleware that validates the X-API-Key
// header against the configured job API key. It protects the manual job
// trigger endpoints used by external cron.
func JobAuthMiddleware(apiKey string) gin.HandlerFunc {
	return keyAuth("X-API-Key", apiKey, "JOB_NOT_CONFIGURED", "Job endpoints are not configured")
}

// WebhookAuthMiddleware creates a Gin middleware that validates the
// X-Webhook-Secret header against the configured shared webhook secret.
func WebhookAuthMiddleware(secret string) gin.HandlerFunc {
	return keyAuth("X-Webhook-Secret", secret, "WEBHOOK_NOT_CONFIGURED", "Webhook endpoints are not configured")
}

func keyAuth(header, expected, missingCode, missingMessage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": gin.H{"code": missingCode, "message": missingMessage}})
			return
		}
		key := c.GetHeader(header)
		if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"error": gin.H{"code": "INVALID_API_KEY", "message": "Invalid or missing API key"}})
			return
		}
		c.Next()
	}
}
