package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eadcode/OnlineDatingApp/internal/session"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// AuthMiddleware resolves the session token from the cookie or Authorization header
// and rejects the request when it is missing or invalid.
func AuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization", "kind": "unauthenticated"})
			return
		}

		userID, err := sessions.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "kind": "unauthenticated"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth resolves the session when one is present and never rejects.
func OptionalAuth(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := sessionToken(c); ok {
			if userID, err := sessions.Parse(token); err == nil {
				c.Set(UserIDKey, userID)
			}
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(session.CookieName); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}
