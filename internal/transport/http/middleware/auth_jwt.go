package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"duso-api/internal/core/auth"
	"duso-api/internal/service"
	"duso-api/internal/transport/http/response"
)

const (
	KeyUserID    = "userId"
	KeyUserEmail = "userEmail"
	KeyUserRole  = "userRole"

	SessionCookie = "access_token"
	bearerPrefix  = "Bearer "
)

// Auth identifies the caller from a bearer token in the Authorization
// header or the session cookie. Tokens are stateless and unrevocable, so
// the user row is re-fetched and is_active re-checked on every use. A
// missing or invalid token leaves the request anonymous; when required
// is set, anonymous requests get 401 with the bearer challenge.
func Auth(jwter *auth.JWTer, users *service.UserService, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			if required {
				response.AbortAuth(c, "Not authenticated")
				return
			}
			c.Next()
			return
		}

		uid, err := jwter.Parse(token)
		if err != nil {
			if required {
				response.AbortAuth(c, "Could not validate credentials")
				return
			}
			c.Next()
			return
		}

		u, err := users.GetRecord(c.Request.Context(), uid)
		if err != nil || u == nil || !u.IsActive {
			if required {
				response.AbortAuth(c, "Could not validate credentials")
				return
			}
			c.Next()
			return
		}

		c.Set(KeyUserID, u.ID)
		c.Set(KeyUserEmail, u.Email)
		c.Set(KeyUserRole, u.Role)
		c.Next()
	}
}

// RequireRole guards a group mounted after Auth(required).
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserRole) != role {
			c.AbortWithStatusJSON(403, gin.H{"detail": "Forbidden"})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, bearerPrefix) {
		return strings.TrimPrefix(ah, bearerPrefix)
	}
	// cookie value carries the same "Bearer <token>" shape
	if v, err := c.Cookie(SessionCookie); err == nil && strings.HasPrefix(v, bearerPrefix) {
		return strings.TrimPrefix(v, bearerPrefix)
	}
	return ""
}
