package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/entities"
)

// Context keys for the authenticated identity
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyEmail  = "auth_email"
	ContextKeyRole   = "auth_role"
)

// TokenCookieName is the cookie that mirrors the bearer token for browser
// clients.
const TokenCookieName = "auth_token"

// Middleware authenticates API requests via bearer token.
type Middleware struct {
	tokens      *TokenManager
	publicPaths map[string]bool
}

// NewMiddleware creates the authentication middleware. Registration,
// login and health endpoints stay public.
func NewMiddleware(tokens *TokenManager) *Middleware {
	publicPaths := map[string]bool{
		"/api/auth/register": true,
		"/api/auth/login":    true,
	}

	return &Middleware{
		tokens:      tokens,
		publicPaths: publicPaths,
	}
}

// Handler returns a Gin middleware that verifies the request's token and
// attaches the decoded identity to the context. Non-API paths bypass the
// check entirely.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/") || m.publicPaths[path] {
			c.Next()
			return
		}

		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, claims.Role)

		c.Next()
	}
}

// ExtractToken pulls the credential from the Authorization header, falling
// back to the auth cookie for browser clients.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// GetUserID returns the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUserRole returns the authenticated user's role from the Gin context.
func GetUserRole(c *gin.Context) entities.UserRole {
	if role, exists := c.Get(ContextKeyRole); exists {
		if r, ok := role.(entities.UserRole); ok {
			return r
		}
	}
	return ""
}
