package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

const (
	// Page loads announce themselves as a browser, matching what a real
	// visitor to the target would send.
	pageUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	snippetLimit = 256
)

// execute performs exactly one attempt and always returns a populated
// Outcome; transport and timeout failures become data, never errors.
func (r *Runner) execute(idx int) Outcome {
	atomic.AddInt64(&r.inflight, 1)
	defer atomic.AddInt64(&r.inflight, -1)

	out := Outcome{Index: idx}

	req, err := r.buildRequest()
	if err != nil {
		out.ErrorMsg = err.Error()
		return out
	}

	start := time.Now()
	resp, err := r.Client.Do(req)
	if err != nil {
		out.Elapsed = time.Since(start)
		out.ErrorMsg = failureMessage(err)
		return out
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	// Elapsed covers send to full-response-received, so it is measured
	// after draining the body.
	out.Elapsed = time.Since(start)

	out.Status = resp.StatusCode
	out.Bytes = int64(len(body))
	out.Success = resp.StatusCode < 400

	switch {
	case readErr != nil:
		out.Success = false
		out.ErrorMsg = failureMessage(readErr)
	case resp.StatusCode >= 400:
		out.ErrorMsg = fmt.Sprintf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		out.Snippet = snippet(body)
	}

	return out
}

func (r *Runner) buildRequest() (*http.Request, error) {
	method := r.Cfg.Method
	if r.Cfg.Mode == ModePage {
		method = http.MethodGet
	}

	var body io.Reader
	hasBody := r.Cfg.Payload != "" && (method == http.MethodPost || method == http.MethodPut)
	if hasBody {
		body = strings.NewReader(r.Cfg.Payload)
	}

	req, err := http.NewRequest(method, r.Cfg.URL, body)
	if err != nil {
		return nil, err
	}

	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+r.Cfg.AuthToken)
	}
	if r.Cfg.Mode == ModePage {
		req.Header.Set("User-Agent", pageUserAgent)
	}
	for k, v := range r.Cfg.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// failureMessage maps a transport error to a stable message so identical
// faults group together in the report. Timeouts collapse to "timeout";
// everything else is stripped of the per-request "Get <url>" prefix that
// *url.Error adds.
func failureMessage(err error) string {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err.Error()
	}
	return err.Error()
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= snippetLimit {
		return s
	}
	cut := s[:snippetLimit]
	// Don't split a multi-byte rune at the boundary
	for !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}
