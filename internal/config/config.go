// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and PASSNET_ env vars on top.
// - Validation errors wrap ErrInvalidConfig, loading errors wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL is the root of the UFA stats API.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamTimeoutMS bounds every stats API request.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// Season is the year used for the team list.
	Season int `koanf:"season"`

	// FetchConcurrency caps parallel per-game event fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// CacheTTLSeconds is how long stats API responses are reused.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// SessionTTLSeconds evicts idle viewer sessions.
	SessionTTLSeconds int `koanf:"session_ttl_seconds"`

	// NodeSizeMax, EdgeSizeScale and EdgeSizeCap tune graph normalization.
	NodeSizeMax   float64 `koanf:"node_size_max"`
	EdgeSizeScale float64 `koanf:"edge_size_scale"`
	EdgeSizeCap   float64 `koanf:"edge_size_cap"`

	// RequireTimestamp rejects events without an ordering key.
	RequireTimestamp bool `koanf:"require_timestamp"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		UpstreamBaseURL:   "https://www.backend.ufastats.com",
		UpstreamTimeoutMS: 10_000,
		Season:            2025,
		FetchConcurrency:  8,
		CacheTTLSeconds:   600,
		SessionTTLSeconds: 1800,
		NodeSizeMax:       25,
		EdgeSizeScale:     10,
		EdgeSizeCap:       10,
		RequireTimestamp:  true,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// SessionTTL returns SessionTTLSeconds as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.UpstreamBaseURL) == "":
		return fmt.Errorf("%w: upstream_base_url must not be empty", ErrInvalidConfig)
	case c.FetchConcurrency < 1:
		return fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case c.NodeSizeMax <= 0:
		return fmt.Errorf("%w: node_size_max must be positive", ErrInvalidConfig)
	case c.EdgeSizeScale <= 0:
		return fmt.Errorf("%w: edge_size_scale must be positive", ErrInvalidConfig)
	case c.EdgeSizeCap <= 0:
		return fmt.Errorf("%w: edge_size_cap must be positive", ErrInvalidConfig)
	}
	return nil
}
