package middleware

import (
	"github.com/gin-gonic/gin"

	"healthybychoice/pkg/i18n"
)

const (
	LocaleKey    = "locale"
	LocaleCookie = "healthybychoice-locale"
)

// LocaleMiddleware resolves the request locale from the preference cookie,
// then Accept-Language, then the configured default.
func LocaleMiddleware(fallback i18n.Locale) gin.HandlerFunc {
	return func(c *gin.Context) {
		persisted, _ := c.Cookie(LocaleCookie)
		c.Set(LocaleKey, i18n.Resolve(persisted, c.GetHeader("Accept-Language"), fallback))
		c.Next()
	}
}

// GetLocale returns the locale resolved for the request.
func GetLocale(c *gin.Context) i18n.Locale {
	if v, ok := c.Get(LocaleKey); ok {
		if l, ok := v.(i18n.Locale); ok {
			return l
		}
	}
	return i18n.DefaultLocale
}
