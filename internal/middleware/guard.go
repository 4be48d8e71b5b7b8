// internal/middleware/guard.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GuardConfig describes the page routes the guard protects.
type GuardConfig struct {
	CookieName  string
	LoginPath   string
	AdminPrefix string
}

// RouteGuard redirects page requests by cookie presence only. The cookie is
// not verified here; every API route re-validates it.
func RouteGuard(cfg GuardConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		token, _ := c.Cookie(cfg.CookieName)
		hasCookie := token != ""

		switch {
		case isUnder(path, cfg.AdminPrefix) && !hasCookie:
			c.Redirect(http.StatusTemporaryRedirect, cfg.LoginPath)
			c.Abort()
			return
		case path == cfg.LoginPath && hasCookie:
			c.Redirect(http.StatusTemporaryRedirect, cfg.AdminPrefix)
			c.Abort()
			return
		}

		c.Next()
	}
}

func isUnder(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
