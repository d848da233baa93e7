package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/constants"
	apierrors "github.com/truehomes/truehomes-api/internal/errors"
	"github.com/truehomes/truehomes-api/internal/services"
)

// RequireAuth verifies the session token carried by the access_token cookie
// and stores the authenticated user ID in the gin context. A missing cookie
// and a bad token both yield 401 but with distinct messages.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(constants.SessionCookieName)
		if err != nil {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		userID, err := tokens.VerifySession(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
