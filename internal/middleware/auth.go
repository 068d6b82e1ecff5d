package middleware

import (
	"net/http"
	"strings"

	"viewminder/internal/pkg/jwt"
	"viewminder/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminAuth validates the admin session token passed as "Authorization: Bearer <token>"
// and stores its role in the gin context.
func AdminAuth(tokens *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Session expired or invalid")
			c.Abort()
			return
		}

		c.Set("role", claims.Role)
		c.Next()
	}
}
