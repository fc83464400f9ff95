package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"eshop_back_end/internal/utils"
)

// TokenChecker vérifie si un token a été révoqué (logout).
type TokenChecker interface {
	Contains(ctx context.Context, token string) bool
}

// AuthRequired valide le Bearer token et pose user_id/email/isAdmin dans le
// contexte gin pour les handlers en aval.
func AuthRequired(secret []byte, blacklist TokenChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "Authorization header missing or malformed", "statusCode": http.StatusUnauthorized},
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if blacklist != nil && blacklist.Contains(c.Request.Context(), tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "Token has been revoked", "statusCode": http.StatusUnauthorized},
			})
			return
		}

		claims, err := utils.VerifyJWT(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"message": "Invalid or expired token", "statusCode": http.StatusUnauthorized},
			})
			return
		}

		if userID, ok := claims["user_id"].(string); ok {
			c.Set("user_id", userID)
		}
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if isAdmin, ok := claims["isAdmin"].(bool); ok {
			c.Set("isAdmin", isAdmin)
		}

		c.Next()
	}
}
