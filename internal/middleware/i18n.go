// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/driprats/storefront-admin/internal/i18n"
)

// I18nMiddleware stores the best supported language from Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	supported := map[string]bool{}
	for _, lang := range i18n.GetSupportedLanguages() {
		supported[lang] = true
	}

	return func(c *gin.Context) {
		lang := "en"

		// Handle cases like "en-GB,en;q=0.9"
		for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
			tag := strings.TrimSpace(strings.Split(part, ";")[0])
			base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
			if supported[base] {
				lang = base
				break
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}
