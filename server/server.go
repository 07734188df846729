// Package server assembles the Fiber application: template engine,
// middleware stack, sessions and routes.
package server

import (
	"html/template"
	"net/http"
	"strings"
	"time"

	"inboxdash/backend"
	"inboxdash/config"
	"inboxdash/handlers/api"
	"inboxdash/handlers/web"
	"inboxdash/middleware"
	"inboxdash/storage"
	"inboxdash/utils"
	"inboxdash/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Helper function to determine if request is an API request
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	return strings.HasPrefix(c.Path(), "/api")
}

func localizerOr(l *i18n.Localizer) *i18n.Localizer {
	if l == nil {
		return utils.Localizer
	}
	return l
}

// newEngine builds the template engine over the embedded views
func newEngine(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")

	// i18n template functions; the request localizer is passed explicitly
	engine.AddFunc("t", func(l *i18n.Localizer, messageID string) string {
		return utils.T(localizerOr(l), messageID)
	})

	engine.AddFunc("tWithData", func(l *i18n.Localizer, messageID, key string, value interface{}) string {
		return utils.TWithData(localizerOr(l), messageID, map[string]interface{}{key: value})
	})

	engine.AddFunc("tPlural", func(l *i18n.Localizer, messageID string, count int) string {
		return utils.TPlural(localizerOr(l), messageID, count)
	})

	// translations that carry inline markup
	engine.AddFunc("tHTML", func(l *i18n.Localizer, messageID string) template.HTML {
		return utils.SanitizeMessage(utils.T(localizerOr(l), messageID))
	})

	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})

	engine.Reload(cfg.Server.Reload)

	return engine
}

// errorHandler renders AppErrors as JSON for API requests and as the
// error page otherwise.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{"error": err.Error()}

	if appErr, ok := err.(*utils.AppError); ok {
		code = appErr.Code
		body["error"] = appErr.Message
		if kind, ok := appErr.Context["kind"]; ok {
			body["kind"] = kind
		}
		if code >= fiber.StatusInternalServerError {
			utils.Log.Error("Application error: %v", appErr)
		} else {
			utils.Log.Debug("Request error: %v", appErr)
		}
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	if isAPIRequest(c) {
		return c.Status(code).JSON(body)
	}

	lang, _ := c.Locals("lang").(string)
	if lang == "" {
		lang = "en"
	}
	return c.Status(code).Render("error", fiber.Map{
		"Error":     body["error"],
		"Code":      code,
		"Lang":      lang,
		"Localizer": c.Locals("localizer"),
	})
}

// tooManyRequests answers requests refused by the global limiter
func tooManyRequests(c *fiber.Ctx) error {
	message := "error_rate_limited"
	if localizer, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		message = utils.T(localizer, message)
	}
	return utils.TooManyRequestsError(message, nil).WithContext("kind", "rate_limited")
}

// New builds the application for cfg. The session storage and the rate
// limiters are closed on app shutdown.
func New(cfg *config.Config) (*fiber.App, error) {
	if err := utils.InitI18n(); err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Views:                 newEngine(cfg),
		ViewsLayout:           "layouts/main", // Default layout
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	sessionStorage := storage.NewMemoryStorage(time.Minute)
	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     cfg.Session.SessionExpiration(),
		CookieSecure:   cfg.Server.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   uuid.NewString,
	})
	app.Hooks().OnShutdown(sessionStorage.Close)

	client := backend.NewClient(cfg.Backend.URL, cfg.Backend.BackendTimeout())

	// Add global middleware
	app.Use(recover.New())  // Recover from panics
	app.Use(logger.New())   // Request logging
	app.Use(compress.New()) // Response compression
	app.Use(helmet.New(helmet.Config{ // Security headers
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))

	app.Use(middleware.LocaleMiddleware())

	globalLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, time.Minute, tooManyRequests)
	app.Hooks().OnShutdown(globalLimiter.Close)
	app.Use(globalLimiter.Handler())

	csrf := middleware.DefaultCSRFConfig()
	csrf.CookieSecure = cfg.Server.CookieSecure

	webHandler := web.NewDashboardHandler(cfg, client, csrf)
	apiHandler := api.NewDashboardHandler(cfg, client, csrf)
	i18nHandler := &api.I18nHandler{}

	webCSRF := csrf
	webCSRF.ErrorHandler = webHandler.HandleCSRFError

	// Public routes
	app.Get("/login", webHandler.HandleLogin)
	app.Get("/api/i18n/:lang", i18nHandler.GetTranslations)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Session routes
	withSession := api.SessionMiddleware(store)

	webSyncLimiter := middleware.NewRateLimiter(cfg.RateLimit.SyncPerMinute, time.Minute, webHandler.HandleRateLimited)
	apiSyncLimiter := middleware.NewRateLimiter(cfg.RateLimit.SyncPerMinute, time.Minute, apiHandler.RateLimited)
	app.Hooks().OnShutdown(webSyncLimiter.Close, apiSyncLimiter.Close)

	app.Get("/", withSession, webHandler.HandleDashboard)
	app.Post("/sync",
		withSession,
		middleware.CSRFProtection(webCSRF),
		webSyncLimiter.Handler(),
		webHandler.HandleSync,
	)

	apiRoutes := app.Group("/api")
	{
		apiRoutes.Get("/dashboard", withSession, apiHandler.GetDashboard)
		apiRoutes.Post("/sync",
			withSession,
			middleware.CSRFProtection(csrf),
			apiSyncLimiter.Handler(),
			apiHandler.Sync,
		)
	}

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		message := "error_404"
		if localizer, ok := c.Locals("localizer").(*i18n.Localizer); ok {
			message = utils.T(localizer, message)
		}
		return utils.NotFoundError(message, nil)
	})

	return app, nil
}
