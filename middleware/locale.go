package middleware

import (
	"inboxdash/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

var supportedTags = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supportedTags)

// LocaleMiddleware detects and sets the user's locale
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Try to get language from query parameter
		lang := c.Query("lang")
		if lang != "" && utils.IsSupportedLanguage(lang) {
			c.Cookie(&fiber.Cookie{
				Name:     "lang",
				Value:    lang,
				MaxAge:   365 * 24 * 3600,
				HTTPOnly: true,
				SameSite: "Lax",
			})
		}

		// 2. Try to get language from cookie
		if !utils.IsSupportedLanguage(lang) {
			lang = c.Cookies("lang")
		}

		// 3. Try to get language from Accept-Language header
		if !utils.IsSupportedLanguage(lang) {
			lang = "en"
			if accept := c.Get(fiber.HeaderAcceptLanguage); accept != "" {
				tags, _, err := language.ParseAcceptLanguage(accept)
				if err == nil && len(tags) > 0 {
					_, idx, _ := matcher.Match(tags...)
					base, _ := supportedTags[idx].Base()
					lang = base.String()
				}
			}
		}

		// Get localizer for this language
		localizer := utils.GetLocalizer(lang)

		// Store in context
		c.Locals("localizer", localizer)
		c.Locals("lang", lang)

		utils.Log.Debug("Locale detected: %s for path: %s", lang, c.Path())

		return c.Next()
	}
}
