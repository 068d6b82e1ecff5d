package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"viewminder/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InternalTokenAuth protects automation endpoints using a static bearer token.
// An empty token leaves the endpoint open.
func InternalTokenAuth(expected string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(c, log, http.StatusUnauthorized, "missing_auth")
			response.Flat(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logAuthFailure(c, log, http.StatusUnauthorized, "invalid_auth_format")
			response.Flat(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
			logAuthFailure(c, log, http.StatusForbidden, "invalid_token")
			response.Flat(c, http.StatusForbidden, "AUTH_INVALID", "Invalid internal token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func logAuthFailure(c *gin.Context, log *zap.Logger, status int, reason string) {
	log.Warn("internal token rejected",
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", requestID(c)),
		zap.String("reason", reason),
	)
}
