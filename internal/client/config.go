package client

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config configures the backend client.
type Config struct {
	// BaseURL of the backend, e.g. http://localhost:8000.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a single request. Planning calls the LLM, so keep it
	// above the server's LLM timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the config used when no profile is present.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "http://localhost:8000",
		Timeout: 30 * time.Second,
	}
}

// Validate normalizes and checks the config.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return errors.New("base url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("base url must be an absolute http(s) url")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
