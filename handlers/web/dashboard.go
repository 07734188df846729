// handlers/web/dashboard.go
package web

import (
	"errors"
	"net/url"

	"inboxdash/config"
	"inboxdash/dashboard"
	"inboxdash/handlers/api"
	"inboxdash/metrics"
	"inboxdash/middleware"
	"inboxdash/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
)

// Backend is what the dashboard needs from the triage service
type Backend interface {
	dashboard.Fetcher
	LoginURL() string
}

type DashboardHandler struct {
	config  *config.Config
	backend Backend
	csrf    middleware.CSRFConfig
}

func NewDashboardHandler(config *config.Config, backend Backend, csrf middleware.CSRFConfig) *DashboardHandler {
	return &DashboardHandler{
		config:  config,
		backend: backend,
		csrf:    csrf,
	}
}

// HandleDashboard renders the dashboard from the session state. A
// pending notice is shown on this render and then dismissed.
func (h *DashboardHandler) HandleDashboard(c *fiber.Ctx) error {
	state := api.State(c)
	if c.Context().QueryArgs().Has("q") {
		state = dashboard.Reduce(state, dashboard.QueryChanged{Query: c.Query("q")})
	}

	view := dashboard.Render(state, dashboard.RenderOptions{
		ActiveTab:  c.Query("tab"),
		MessageURL: h.config.Gmail.MessageURL,
	})

	api.SetState(c, dashboard.Reduce(state, dashboard.NoticeDismissed{}))

	return c.Render("dashboard", fiber.Map{
		"View":      view,
		"Localizer": c.Locals("localizer"),
		"Lang":      c.Locals("lang"),
		"CSRFToken": middleware.EnsureCSRFToken(c, h.csrf),
	})
}

// HandleSync runs one sync and redirects back to the dashboard
func (h *DashboardHandler) HandleSync(c *fiber.Ctx) error {
	state := dashboard.Sync(h.backend, api.State(c))
	api.SetState(c, state)

	return c.Redirect(dashboardURL(c.FormValue("tab")), fiber.StatusSeeOther)
}

// HandleRateLimited turns a refused sync into a notice
func (h *DashboardHandler) HandleRateLimited(c *fiber.Ctx) error {
	metrics.SyncRateLimited.Inc()
	utils.Log.WithField("ip", c.IP()).Warn("Sync rate limited")

	api.SetState(c, dashboard.Reduce(api.State(c), dashboard.SyncRateLimited{}))

	return c.Redirect(dashboardURL(c.FormValue("tab")), fiber.StatusSeeOther)
}

// HandleLogin sends the browser to the backend's login flow
func (h *DashboardHandler) HandleLogin(c *fiber.Ctx) error {
	return c.Redirect(h.backend.LoginURL(), fiber.StatusFound)
}

// HandleCSRFError renders the expired-form page
func (h *DashboardHandler) HandleCSRFError(c *fiber.Ctx, reason string) error {
	message := "error_csrf"
	if localizer, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		message = utils.T(localizer, message)
	}
	return utils.ForbiddenError(message, errors.New(reason))
}

func dashboardURL(tab string) string {
	if tab == "" {
		return "/"
	}
	return "/?tab=" + url.QueryEscape(tab)
}
