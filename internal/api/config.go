package api

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultBaseURL is the versioned origin of the stats API.
const DefaultBaseURL = "https://api.statcord.com/v3"

// Config holds the configuration for the stats API client.
// Config is passed as a constructor argument; this package does no file I/O.
type Config struct {
	// BaseURL is the stats API origin including the version path.
	// Default: DefaultBaseURL
	BaseURL string

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: 10s
	ConnectTimeout time.Duration

	// RequestTimeout is the maximum time for a complete HTTP request/response cycle.
	// Default: 30s
	RequestTimeout time.Duration

	// UserAgent is sent with every request.
	// Default: "botstats"
	UserAgent string

	// CompressRequests enables gzip for request bodies larger than 1 KiB.
	CompressRequests bool
}

// DefaultConnectTimeout is the default TCP connect timeout.
const DefaultConnectTimeout = 10 * time.Second

// DefaultRequestTimeout is the default HTTP request timeout.
const DefaultRequestTimeout = 30 * time.Second

// DefaultUserAgent is the default User-Agent header value.
const DefaultUserAgent = "botstats"

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

// Validate checks that required fields are set and well formed.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("api: config: BaseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("api: config: BaseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api: config: BaseURL scheme %q is not http or https", u.Scheme)
	}
	if c.ConnectTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("api: config: timeouts must not be negative")
	}
	return nil
}
