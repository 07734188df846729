package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	assert.Equal(t, 10*time.Second, cfg.Backend.BackendTimeout())
	assert.Equal(t, DefaultMessageURL, cfg.Gmail.MessageURL)
	assert.Equal(t, 24*time.Hour, cfg.Session.SessionExpiration())
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	path := writeConfig(t, `
[server]
port = 8080
log_level = "debug"

[backend]
url = "http://localhost:5000/"
timeout_seconds = 3
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "http://localhost:5000", cfg.Backend.URL, "trailing slash is trimmed")
	assert.Equal(t, 3*time.Second, cfg.Backend.BackendTimeout())
	assert.Equal(t, 6, cfg.RateLimit.SyncPerMinute, "untouched sections keep defaults")
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://backend.example.com")

	path := writeConfig(t, "[backend]\nurl = \"http://localhost:5000\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://backend.example.com", cfg.Backend.URL)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("BACKEND_URL", "")

	cases := map[string]string{
		"scheme":  "[backend]\nurl = \"ftp://example.com\"\n",
		"host":    "[backend]\nurl = \"http://\"\n",
		"timeout": "[backend]\ntimeout_seconds = 0\n",
		"limits":  "[rate_limit]\nsync_per_minute = -1\n",
		"syntax":  "[backend\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}
