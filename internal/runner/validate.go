package runner

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError is the only error a run can fail with once constructed;
// everything past validation is captured per-attempt as Outcome data.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// Normalize fills defaults so zero-valued optional fields behave sensibly.
func (c *Config) Normalize() {
	if c.Mode == "" {
		c.Mode = ModeAPI
	}
	if c.Method == "" {
		c.Method = "GET"
	}
	c.Method = strings.ToUpper(c.Method)
	if c.TimeoutSec <= 0 {
		c.TimeoutSec = DefaultTimeoutSec
	}
}

func (c Config) Validate() error {
	if c.Mode != ModeAPI && c.Mode != ModePage {
		return &ValidationError{"mode", fmt.Sprintf("must be %q or %q", ModeAPI, ModePage)}
	}
	if strings.TrimSpace(c.URL) == "" {
		return &ValidationError{"url", "must not be empty"}
	}
	u, err := url.ParseRequestURI(c.URL)
	if err != nil {
		return &ValidationError{"url", err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{"url", "scheme must be http or https"}
	}
	if c.Mode == ModeAPI && !allowedMethods[c.Method] {
		return &ValidationError{"method", "must be one of GET, POST, PUT, DELETE"}
	}
	if c.Requests < 1 || c.Requests > MaxRequests {
		return &ValidationError{"requests", fmt.Sprintf("must be between 1 and %d", MaxRequests)}
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return &ValidationError{"concurrency", fmt.Sprintf("must be between 1 and %d", MaxConcurrency)}
	}
	if c.DelayMs < 0 {
		return &ValidationError{"delay_ms", "must not be negative"}
	}
	if c.Payload != "" && !json.Valid([]byte(c.Payload)) {
		return &ValidationError{"payload", "must be valid JSON"}
	}
	return nil
}
