package runner

import (
	"time"
)

type Mode string

const (
	// ModeAPI hits a single API endpoint with a configurable method/body.
	ModeAPI Mode = "api"
	// ModePage fetches a full page like a browser would (always GET).
	ModePage Mode = "page"
)

const (
	MaxRequests    = 1000
	MaxConcurrency = 100

	DefaultTimeoutSec = 30
)

type Config struct {
	Mode   Mode   `json:"mode"`
	URL    string `json:"url"`
	Method string `json:"method"`

	// Payload is a raw JSON body, sent on POST/PUT only.
	Payload   string            `json:"payload,omitempty"`
	AuthToken string            `json:"-"`
	Headers   map[string]string `json:"headers,omitempty"`

	Requests    int `json:"requests"`
	Concurrency int `json:"concurrency"`
	DelayMs     int `json:"delay_ms"`
	TimeoutSec  int `json:"timeout_sec"`

	OutPrefix string `json:"-"`
}

// Outcome is the record of a single attempt. Status 0 means the request
// never produced an HTTP response (connection error, timeout, ...).
type Outcome struct {
	Index    int           `json:"index"`
	Status   int           `json:"status"`
	Elapsed  time.Duration `json:"elapsed"`
	Success  bool          `json:"success"`
	Bytes    int64         `json:"bytes"`
	ErrorMsg string        `json:"error,omitempty"`
	Snippet  string        `json:"snippet,omitempty"`
}

// Result is the sealed output of one run. Outcomes are in ascending Index
// order and, unless the run was aborted, len(Outcomes) == Config.Requests.
type Result struct {
	Config     Config    `json:"config"`
	Outcomes   []Outcome `json:"outcomes"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Aborted is set when cancellation stopped the run before every
	// index was claimed; Outcomes then holds only the claimed prefix.
	Aborted bool `json:"aborted,omitempty"`
}

func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
