package tmdb

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/cinedle/pkg/logger"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout caps a single attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithRateLimit throttles outbound requests to perSec with the given burst.
func WithRateLimit(perSec float64, burst int) Option {
	return func(c *Client) {
		if perSec > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), burst)
		}
	}
}

// WithRetry sets the total attempt budget and the backoff bounds.
func WithRetry(maxAttempts int, initial, maxInterval time.Duration) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.retry.maxAttempts = maxAttempts
		}
		if initial > 0 {
			c.retry.initial = initial
		}
		if maxInterval > 0 {
			c.retry.max = maxInterval
		}
	}
}

// WithBreaker opens the circuit after maxFailures consecutive transient
// failures and probes again after timeout.
func WithBreaker(maxFailures int, timeout time.Duration) Option {
	return func(c *Client) {
		if maxFailures > 0 {
			c.breakerFailures = uint32(maxFailures)
		}
		if timeout > 0 {
			c.breakerTimeout = timeout
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
