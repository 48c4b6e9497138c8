package middleware

import (
	"github.com/abira1/Toi-Task/internal/constants"
	apierrors "github.com/abira1/Toi-Task/internal/errors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		// Store user ID and role in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		if role := session.Get(constants.SessionKeyRole); role != nil {
			c.Set(constants.SessionKeyRole, role)
		}
		c.Next()
	}
}

// RequireAdmin allows only sessions resolved as admin. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(constants.SessionKeyRole)
		if !exists || role != constants.RoleAdmin {
			apierrors.Forbidden(c, "Administrator access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IsAdmin reports whether the current session carries the admin role
func IsAdmin(c *gin.Context) bool {
	role, exists := c.Get(constants.SessionKeyRole)
	return exists && role == constants.RoleAdmin
}
