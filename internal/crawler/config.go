package crawler

import (
	"fmt"
	"strings"
	"time"
)

// Config captures every knob that influences a single source's crawl.
// It is supplied at construction and never mutated by the orchestrator.
type Config struct {
	Source         string
	BaseURL        string
	RateLimit      time.Duration
	MaxRetries     int
	Timeout        time.Duration
	UserAgent      string
	Headers        map[string]string
	VerifySSL      bool
	CustomSettings map[string]any
}

// Defaults applied by Validate for fields left at their zero value.
const (
	DefaultRateLimit  = 1 * time.Second
	DefaultMaxRetries = 3
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "sanctions-watch/0.1.0"
)

// Validate checks the configuration before any I/O happens and fills in
// defaults. An invalid Config fails crawler construction.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("crawler config: source must be set")
	}
	if strings.TrimSpace(c.BaseURL) == "" && c.MockFile() == "" {
		return fmt.Errorf("crawler config: base_url must be set for %s", c.Source)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("crawler config: rate_limit must be >= 0 for %s", c.Source)
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("crawler config: max_retries must be >= 0 for %s", c.Source)
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.Timeout < 0 {
		return fmt.Errorf("crawler config: timeout must be >= 0 for %s", c.Source)
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	return nil
}

// MockFile returns the local fixture path configured via custom settings,
// or "" when the crawler should hit the network. Used for deterministic
// testing against recorded payloads.
func (c *Config) MockFile() string {
	if c.CustomSettings == nil {
		return ""
	}
	path, _ := c.CustomSettings["mock_file"].(string)
	return path
}
