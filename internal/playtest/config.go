// Package playtest drives a running server with guesses and renders the
// feedback it returns.
package playtest

import (
	"errors"
	"strings"
	"time"
)

// Default configuration constants.
const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultWorkers = 4
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for a playtest run.
type Config struct {
	BaseURL string        // Base URL of the service
	Guesses []string      // Titles to guess, in display order
	Workers int           // Maximum concurrent requests
	Timeout time.Duration // HTTP request timeout
	Color   bool          // Colorize signal tokens
}

// Validate normalizes c and reports what is missing.
func (c *Config) Validate() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	guesses := c.Guesses[:0]
	for _, g := range c.Guesses {
		if g = strings.TrimSpace(g); g != "" {
			guesses = append(guesses, g)
		}
	}
	c.Guesses = guesses
	if len(c.Guesses) == 0 {
		return errors.New("at least one guess is required")
	}
	return nil
}
