package middleware

import (
	"context"
	"net/http"
	"strings"

	"postboard/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	TokenCookie   = "token"
	ContextUserID = "user_id"
	ContextRole   = "user_role"
	bearerPrefix  = "Bearer "
)

// UserChecker reports whether an account still exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AuthMiddleware accepts the session cookie or a Bearer header. When users is
// non-nil, tokens of deleted accounts are rejected.
func AuthMiddleware(jwtService *jwt.Service, users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			unauthorized(c, "Authorization required")
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			unauthorized(c, "Invalid or expired token")
			return
		}
		if claims.UserID == "" || claims.Role == "" {
			unauthorized(c, "Invalid token claims")
			return
		}

		if users != nil {
			exists, err := users.Exists(c.Request.Context(), claims.UserID)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify user"})
				return
			}
			if !exists {
				unauthorized(c, "User no longer exists")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}
		c.Next()
	}
}
