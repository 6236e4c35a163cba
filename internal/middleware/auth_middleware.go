package middleware

import (
	"net/http"
	"strings"

	"github.com/letterdraw/letterdraw-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "userId"
	ctxEmail  = "userEmail"
	ctxRole   = "userRole"
)

// JWTAuthMiddleware validates the Bearer token and stores the caller's
// identity in the request context.
func JWTAuthMiddleware(tokens *jwt.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.Validate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not in the
// allowed set. Must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CallerRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CallerRole returns the authenticated caller's role, or "".
func CallerRole(c *gin.Context) string {
	role, _ := c.Get(ctxRole)
	s, _ := role.(string)
	return s
}

// CallerEmail returns the authenticated caller's email, or "".
func CallerEmail(c *gin.Context) string {
	email, _ := c.Get(ctxEmail)
	s, _ := email.(string)
	return s
}
