package httpclient

import (
	"time"

	"github.com/tombee/cfnresource/pkg/errors"
)

// Config configures the HTTP client with timeout, retry, and logging
// settings.
type Config struct {
	// Timeout is the total request timeout (includes retries).
	// Default: 30s. Must be > 0.
	Timeout time.Duration

	// RetryAttempts is the maximum number of retry attempts (0 = no retries).
	// Default: 1. Must be >= 0.
	RetryAttempts int

	// RetryBackoff is the initial backoff delay before the first retry.
	// Default: 500ms. Must be > 0 if RetryAttempts > 0.
	RetryBackoff time.Duration

	// MaxBackoff is the maximum backoff delay cap.
	// Default: 10s. Must be >= RetryBackoff.
	MaxBackoff time.Duration

	// UserAgent is the User-Agent header value.
	// Required. Must be non-empty.
	UserAgent string

	// AllowNonIdempotentRetry enables retry for non-idempotent methods
	// (POST, PUT, PATCH, DELETE). Default: false. The callback reporter
	// sets this because re-delivering the same outcome document is
	// idempotent at the receiver.
	AllowNonIdempotentRetry bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		RetryAttempts: 1,
		RetryBackoff:  500 * time.Millisecond,
		MaxBackoff:    10 * time.Second,
		UserAgent:     "cfnresource/1.0",
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return &errors.ConfigError{Key: "timeout", Reason: "must be > 0"}
	}

	if c.RetryAttempts < 0 {
		return &errors.ConfigError{Key: "retry_attempts", Reason: "must be >= 0"}
	}

	if c.RetryAttempts > 0 {
		if c.RetryBackoff <= 0 {
			return &errors.ConfigError{Key: "retry_backoff", Reason: "must be > 0 when retries are enabled"}
		}
		if c.MaxBackoff < c.RetryBackoff {
			return &errors.ConfigError{Key: "max_backoff", Reason: "must be >= retry_backoff"}
		}
	}

	if c.UserAgent == "" {
		return &errors.ConfigError{Key: "user_agent", Reason: "must be non-empty"}
	}

	return nil
}
