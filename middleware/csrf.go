package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"
)

// CSRFConfig holds CSRF protection configuration
type CSRFConfig struct {
	TokenLength  int
	CookieName   string
	HeaderName   string
	FormField    string
	ContextKey   string
	CookieMaxAge int
	CookieSecure bool
	Skipper      func(*fiber.Ctx) bool
	// ErrorHandler answers a rejected request; nil means 403 JSON
	ErrorHandler func(*fiber.Ctx, string) error
}

// DefaultCSRFConfig returns default CSRF configuration
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		FormField:    "_csrf",
		ContextKey:   "csrf",
		CookieMaxAge: 24 * 3600,
	}
}

// CSRFProtection creates double-submit CSRF protection middleware. The
// token may come from the header or, for plain HTML forms, a form field.
func CSRFProtection(config ...CSRFConfig) fiber.Handler {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	reject := func(c *fiber.Ctx, reason string) error {
		if cfg.ErrorHandler != nil {
			return cfg.ErrorHandler(c, reason)
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": reason,
		})
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skipper != nil && cfg.Skipper(c) {
			return c.Next()
		}

		// Skip GET, HEAD, OPTIONS requests
		if c.Method() == fiber.MethodGet ||
			c.Method() == fiber.MethodHead ||
			c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		cookieToken := c.Cookies(cfg.CookieName)

		requestToken := c.Get(cfg.HeaderName)
		if requestToken == "" && cfg.FormField != "" {
			requestToken = c.FormValue(cfg.FormField)
		}

		if cookieToken == "" || requestToken == "" {
			return reject(c, "CSRF token missing")
		}

		if !tokensEqual(cookieToken, requestToken) {
			return reject(c, "CSRF token mismatch")
		}

		return c.Next()
	}
}

// EnsureCSRFToken returns the request's token, issuing a new cookie when
// there is none, and stores it under the context key.
func EnsureCSRFToken(c *fiber.Ctx, config ...CSRFConfig) string {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	token := c.Cookies(cfg.CookieName)
	if token == "" {
		token = generateToken(cfg.TokenLength)

		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    token,
			MaxAge:   cfg.CookieMaxAge,
			HTTPOnly: true,
			SameSite: "Strict",
			Secure:   cfg.CookieSecure,
		})
	}

	c.Locals(cfg.ContextKey, token)

	return token
}

// generateToken generates a random token
func generateToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

// tokensEqual performs constant-time comparison of tokens
func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
