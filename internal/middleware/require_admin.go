package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin suppose AuthRequired déjà passé.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("isAdmin")
		if !exists || isAdmin != true {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"message": "Admin privileges required", "statusCode": http.StatusForbidden},
			})
			return
		}
		c.Next()
	}
}
