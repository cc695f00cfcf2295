package middleware

import (
	"net/http"
	"strings"

	"haven/gateway"
	"haven/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "userID"
	CtxToken  = "authToken"
)

// JWTAuthMiddleware validates the bearer token, stores the caller's user ID and
// raw token on the gin context, and attaches the token to the request context
// so downstream gateway calls are authenticated as the caller.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "login_required",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
				"code":  "login_required",
			})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxToken, tokenString)
		c.Request = c.Request.WithContext(gateway.WithToken(c.Request.Context(), tokenString))
		c.Next()
	}
}
