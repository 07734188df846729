package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBackendURL = "https://inboxintelligence.onrender.com"
	DefaultMessageURL = "https://mail.google.com/mail/u/0/#inbox/"
)

type ServerConfig struct {
	Port         int    `toml:"port"`
	LogLevel     string `toml:"log_level"`
	Reload       bool   `toml:"reload"` // re-parse templates on every render
	CookieSecure bool   `toml:"cookie_secure"`
}

type BackendConfig struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type GmailConfig struct {
	MessageURL string `toml:"message_url"` // message id is appended
}

type SessionConfig struct {
	ExpirationHours int `toml:"expiration_hours"`
}

type RateLimitConfig struct {
	SyncPerMinute int `toml:"sync_per_minute"`
	PerMinute     int `toml:"per_minute"` // all routes
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Backend   BackendConfig   `toml:"backend"`
	Gmail     GmailConfig     `toml:"gmail"`
	Session   SessionConfig   `toml:"session"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var config Config

	config.Server.Port = 3000
	config.Server.LogLevel = "info"

	config.Backend.URL = DefaultBackendURL
	config.Backend.TimeoutSeconds = 10

	config.Gmail.MessageURL = DefaultMessageURL

	config.Session.ExpirationHours = 24

	config.RateLimit.SyncPerMinute = 6
	config.RateLimit.PerMinute = 100

	return &config
}

// LoadConfig reads filepath over the defaults. A missing file is not an
// error. BACKEND_URL in the environment wins over the file.
func LoadConfig(filepath string) (*Config, error) {
	config := Default()

	_, err := toml.DecodeFile(filepath, config)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if env := os.Getenv("BACKEND_URL"); env != "" {
		config.Backend.URL = env
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return config, nil
}

// Validate normalizes the backend URL and rejects unusable values.
func (c *Config) Validate() error {
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend url must be http or https, got %q", c.Backend.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend url has no host: %q", c.Backend.URL)
	}

	if c.Backend.TimeoutSeconds <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if c.Gmail.MessageURL == "" {
		c.Gmail.MessageURL = DefaultMessageURL
	}
	if c.Session.ExpirationHours <= 0 {
		c.Session.ExpirationHours = 24
	}
	if c.RateLimit.SyncPerMinute <= 0 || c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

// BackendTimeout is the fixed bound on one /result request.
func (c *BackendConfig) BackendTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SessionExpiration is how long an idle dashboard session survives.
func (c *SessionConfig) SessionExpiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
