package middleware

import (
	"net/http"                       // HTTP status codes
	"strings"                        // String manipulation
	"stock_portfolio/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates the session token and extracts user information.
// The token may arrive as the session cookie (browser clients) or as a
// Bearer Authorization header (API clients). Requests without a valid token
// are rejected, never silently passed through.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, _ := c.Cookie(utils.SessionCookie) // Prefer the session cookie
		// Fall back to the Authorization header
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization") // Get Authorization header
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
			}
		}
		// No token means the request is anonymous
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse the session token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}
		c.Set("userID", claims.UserID) // Store userID in context
		c.Next()                       // Proceed to the next handler
	}
}
