package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"inboxdash/config"
	"inboxdash/middleware"
	"inboxdash/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct{}

func (stubBackend) FetchResult() (models.CategoryMap, error) { return models.CategoryMap{}, nil }
func (stubBackend) LoginURL() string                         { return "https://triage.example.com/auth/login" }

func TestDashboardURL(t *testing.T) {
	assert.Equal(t, "/", dashboardURL(""))
	assert.Equal(t, "/?tab=university", dashboardURL("university"))
	assert.Equal(t, "/?tab=a%26b", dashboardURL("a&b"))
}

func TestHandleLogin(t *testing.T) {
	h := NewDashboardHandler(config.Default(), stubBackend{}, middleware.DefaultCSRFConfig())
	app := fiber.New()
	app.Get("/login", h.HandleLogin)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://triage.example.com/auth/login", resp.Header.Get("Location"))
}
