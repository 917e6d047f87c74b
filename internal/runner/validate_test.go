package runner

import (
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		Mode:        ModeAPI,
		URL:         "http://localhost:8080/api",
		Method:      "GET",
		Requests:    10,
		Concurrency: 2,
		TimeoutSec:  30,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*Config)
		wantField string // empty means valid
	}{
		{"valid", func(c *Config) {}, ""},
		{"valid upper bounds", func(c *Config) { c.Requests = 1000; c.Concurrency = 100 }, ""},
		{"valid page mode", func(c *Config) { c.Mode = ModePage; c.Method = "" }, ""},
		{"valid payload", func(c *Config) { c.Method = "POST"; c.Payload = `{"a": 1}` }, ""},
		{"unknown mode", func(c *Config) { c.Mode = "browser" }, "mode"},
		{"empty url", func(c *Config) { c.URL = "  " }, "url"},
		{"relative url", func(c *Config) { c.URL = "not a url" }, "url"},
		{"ftp url", func(c *Config) { c.URL = "ftp://example.com" }, "url"},
		{"bad method", func(c *Config) { c.Method = "PATCH" }, "method"},
		{"zero requests", func(c *Config) { c.Requests = 0 }, "requests"},
		{"too many requests", func(c *Config) { c.Requests = 1001 }, "requests"},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, "concurrency"},
		{"too much concurrency", func(c *Config) { c.Concurrency = 101 }, "concurrency"},
		{"negative delay", func(c *Config) { c.DelayMs = -1 }, "delay_ms"},
		{"invalid payload", func(c *Config) { c.Payload = "{oops" }, "payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()

			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("failed on field %q, want %q", verr.Field, tc.wantField)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	var cfg Config
	cfg.Normalize()

	if cfg.Mode != ModeAPI {
		t.Errorf("mode default %q", cfg.Mode)
	}
	if cfg.Method != "GET" {
		t.Errorf("method default %q", cfg.Method)
	}
	if cfg.TimeoutSec != DefaultTimeoutSec {
		t.Errorf("timeout default %d", cfg.TimeoutSec)
	}

	cfg = Config{Method: "post"}
	cfg.Normalize()
	if cfg.Method != "POST" {
		t.Errorf("method not upper-cased: %q", cfg.Method)
	}
}
