package middleware

import (
	"net/http"
	"strings"

	"linkup/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware resolves the requesting user from either the Authorization
// header or the "token" cookie set at login. Handlers downstream read
// "user_id" from the context and never touch credentials themselves.
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""

		if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
			tokenString = cookie
		}

		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Token missing."})
				c.Abort()
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Invalid authorization header."})
				c.Abort()
				return
			}
			tokenString = parts[1]
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Invalid token."})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
