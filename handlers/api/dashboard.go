package api

import (
	"inboxdash/backend"
	"inboxdash/config"
	"inboxdash/dashboard"
	"inboxdash/metrics"
	"inboxdash/middleware"
	"inboxdash/utils"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the dashboard state as JSON
type DashboardHandler struct {
	config  *config.Config
	fetcher dashboard.Fetcher
	csrf    middleware.CSRFConfig
}

// NewDashboardHandler creates a new dashboard API handler
func NewDashboardHandler(cfg *config.Config, fetcher dashboard.Fetcher, csrf middleware.CSRFConfig) *DashboardHandler {
	return &DashboardHandler{
		config:  cfg,
		fetcher: fetcher,
		csrf:    csrf,
	}
}

func (h *DashboardHandler) view(c *fiber.Ctx, state dashboard.State) dashboard.View {
	return dashboard.Render(state, dashboard.RenderOptions{
		ActiveTab:  c.Query("tab"),
		MessageURL: h.config.Gmail.MessageURL,
	})
}

// GetDashboard returns the rendered view of the session state. The CSRF
// token for POST /api/sync comes back in the token header.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	c.Set(h.csrf.HeaderName, middleware.EnsureCSRFToken(c, h.csrf))

	state := State(c)
	if c.Context().QueryArgs().Has("q") {
		state = dashboard.Reduce(state, dashboard.QueryChanged{Query: c.Query("q")})
		SetState(c, state)
	}
	return c.JSON(h.view(c, state))
}

// Sync fetches from the backend. Failures keep the previous state and
// answer with the matching error status.
func (h *DashboardHandler) Sync(c *fiber.Ctx) error {
	next, err := dashboard.Attempt(h.fetcher, State(c))
	// notices are for the HTML dashboard; the JSON caller gets the status
	next = dashboard.Reduce(next, dashboard.NoticeDismissed{})
	SetState(c, next)

	if err != nil {
		return syncError(err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"view":   h.view(c, next),
	})
}

// syncError maps a failed sync to an AppError for the error handler
func syncError(err error) *utils.AppError {
	kind := backend.KindOf(err)
	var appErr *utils.AppError
	switch kind {
	case backend.NotAuthenticated:
		appErr = utils.UnauthorizedError("Please login first", err)
	case backend.ServerError:
		appErr = utils.BadGatewayError("Backend server error", err)
	default:
		appErr = utils.ServiceUnavailableError("Backend offline", err)
	}
	return appErr.WithContext("kind", string(kind))
}

// RateLimited answers a refused API sync
func (h *DashboardHandler) RateLimited(c *fiber.Ctx) error {
	metrics.SyncRateLimited.Inc()
	return utils.TooManyRequestsError("Too many sync requests", nil).WithContext("kind", "rate_limited")
}
