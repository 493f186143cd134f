package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const APIKeyHeader = "X-Api-Key"

// APIKey rejects requests without the configured key. An empty key disables
// the check.
func APIKey(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if required == "" {
			c.Next()
			return
		}
		if c.GetHeader(APIKeyHeader) != required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid api key",
				},
			})
			return
		}
		c.Next()
	}
}
