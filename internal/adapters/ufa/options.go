package ufa

import (
	"net/http"
	"time"

	"github.com/okian/passnet/pkg/logger"
)

const (
	// DefaultBaseURL is the public UFA stats backend.
	DefaultBaseURL = "https://www.backend.ufastats.com"

	defaultTimeout     = 10 * time.Second
	defaultCacheTTL    = 10 * time.Minute
	defaultTeamsTTL    = time.Hour
	defaultConcurrency = 8
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at another backend, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheTTL sets how long game and event responses are reused.
// Zero disables caching for them.
func WithCacheTTL(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.cacheTTL = d
		}
	}
}

// WithTeamsTTL sets how long the team list is reused.
func WithTeamsTTL(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.teamsTTL = d
		}
	}
}

// WithConcurrency caps parallel per-game event fetches.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides time.Now for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.cache.now = now
		}
	}
}
