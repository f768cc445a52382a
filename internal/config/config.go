// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/cinedle/internal/validation"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":3000".
	Addr string `koanf:"addr" validate:"required"`

	// TMDBAPIKey authenticates against the metadata provider.
	TMDBAPIKey string `koanf:"tmdb_api_key"`

	// TMDBBaseURL is the provider API root.
	TMDBBaseURL string `koanf:"tmdb_base_url" validate:"required,url"`

	// TMDBLanguage is passed as the language query parameter when set.
	TMDBLanguage string `koanf:"tmdb_language"`

	// TargetCategory is the category the round target is drawn from.
	TargetCategory string `koanf:"target_category" validate:"oneof=movie tv"`

	// TargetWaitMS bounds how long a compare waits for the target before failing.
	TargetWaitMS int `koanf:"target_wait_ms" validate:"min=0"`

	// ProviderTimeoutMS caps one provider attempt.
	ProviderTimeoutMS int `koanf:"provider_timeout_ms" validate:"min=1"`

	// ProviderRatePerSec and ProviderBurst throttle outbound calls.
	ProviderRatePerSec float64 `koanf:"provider_rate_per_sec" validate:"gt=0"`
	ProviderBurst      int     `koanf:"provider_burst" validate:"min=1"`

	// Retry policy for transient provider failures.
	RetryMaxAttempts int `koanf:"retry_max_attempts" validate:"min=1,max=10"`
	RetryInitialMS   int `koanf:"retry_initial_ms" validate:"min=1"`
	RetryMaxMS       int `koanf:"retry_max_ms" validate:"gtefield=RetryInitialMS"`

	// Circuit breaker around the provider.
	BreakerMaxFailures int `koanf:"breaker_max_failures" validate:"min=1"`
	BreakerTimeoutMS   int `koanf:"breaker_timeout_ms" validate:"min=1"`

	// Inbound per-IP rate limit; zero requests disables it.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindowMS int `koanf:"rate_limit_window_ms" validate:"min=1"`

	// CORSAllowedOrigins is a comma separated origin list.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// Metrics naming and collection.
	MetricsEnabled   bool   `koanf:"metrics_enabled"`
	MetricsNamespace string `koanf:"metrics_namespace" validate:"required,metricname"`
	MetricsSubsystem string `koanf:"metrics_subsystem" validate:"required,metricname"`
	MetricsPrefix    string `koanf:"metrics_prefix" validate:"omitempty,metricname"`
	MetricsRefreshMS int    `koanf:"metrics_refresh_ms" validate:"min=100"`

	// MetricsLabels is a comma separated list of name=value constant labels.
	MetricsLabels string `koanf:"metrics_labels"`

	// MetricsBucketsMS is a comma separated list of latency histogram bounds in ms.
	MetricsBucketsMS string `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":3000",
		TMDBBaseURL:        "https://api.themoviedb.org/3",
		TMDBLanguage:       "en-US",
		TargetCategory:     "movie",
		TargetWaitMS:       2_000,
		ProviderTimeoutMS:  5_000,
		ProviderRatePerSec: 20,
		ProviderBurst:      10,
		RetryMaxAttempts:   3,
		RetryInitialMS:     200,
		RetryMaxMS:         2_000,
		BreakerMaxFailures: 5,
		BreakerTimeoutMS:   30_000,
		RateLimitRequests:  120,
		RateLimitWindowMS:  60_000,
		CORSAllowedOrigins: "*",
		MetricsEnabled:     true,
		MetricsNamespace:   "cinedle",
		MetricsSubsystem:   "game",
		MetricsRefreshMS:   10_000,
	}
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// TargetWait returns TargetWaitMS as a duration.
func (c *Config) TargetWait() time.Duration {
	return time.Duration(c.TargetWaitMS) * time.Millisecond
}

// ProviderTimeout returns ProviderTimeoutMS as a duration.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMS) * time.Millisecond
}

// RetryInitial returns RetryInitialMS as a duration.
func (c *Config) RetryInitial() time.Duration {
	return time.Duration(c.RetryInitialMS) * time.Millisecond
}

// RetryMax returns RetryMaxMS as a duration.
func (c *Config) RetryMax() time.Duration {
	return time.Duration(c.RetryMaxMS) * time.Millisecond
}

// BreakerTimeout returns BreakerTimeoutMS as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}

// RateLimitWindow returns RateLimitWindowMS as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}

// MetricsLabelMap parses MetricsLabels. An empty string yields an empty map.
func (c *Config) MetricsLabelMap() (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range strings.Split(c.MetricsLabels, ",") {
		if pair = strings.TrimSpace(pair); pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || validation.Get().Var(name, "required,metricname") != nil {
			return nil, fmt.Errorf("metrics label %q must look like name=value", pair)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("metrics label %q set twice", name)
		}
		out[name] = strings.TrimSpace(value)
	}
	return out, nil
}

// MetricsBuckets parses MetricsBucketsMS. An empty string yields nil so the
// metrics package keeps its own latency buckets.
func (c *Config) MetricsBuckets() ([]float64, error) {
	var out []float64
	for _, raw := range strings.Split(c.MetricsBucketsMS, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("metrics bucket %q must be a positive number", raw)
		}
		if n := len(out); n > 0 && v <= out[n-1] {
			return nil, fmt.Errorf("metrics buckets must be strictly increasing at %q", raw)
		}
		out = append(out, v)
	}
	return out, nil
}
