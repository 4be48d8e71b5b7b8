// internal/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/driprats/storefront-admin/internal/models"
	"github.com/driprats/storefront-admin/internal/utils"
)

const sessionKey = "session"

// SessionAuthenticator resolves a session token to its user.
type SessionAuthenticator interface {
	Authenticate(token string) (*models.SessionUser, error)
}

// SessionRequired admits requests carrying a valid session cookie. Missing,
// malformed, tampered and expired tokens all get the same 401.
func SessionRequired(auth SessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		user, err := auth.Authenticate(token)
		if err != nil {
			utils.UnauthorizedResponse(c, "")
			c.Abort()
			return
		}

		c.Set(sessionKey, user)
		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Next()
	}
}

// RoleRequired must run after SessionRequired.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || models.Role(user.Role) != role {
			utils.ForbiddenResponse(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.SessionUser, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.SessionUser)
	return user, ok
}
