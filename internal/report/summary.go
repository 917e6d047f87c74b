// Package report turns a sealed run result into the numbers a human
// actually reads: success rate, latency spread, status distribution and
// grouped failures.
package report

import (
	"sort"
	"time"

	"pummel/internal/runner"
)

// NoResponse is the histogram bucket for attempts that never produced an
// HTTP status (connection errors, timeouts).
const NoResponse = 0

type ErrorGroup struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
	// Snippet is one representative response body, from the earliest
	// failed attempt in the group.
	Snippet    string `json:"snippet,omitempty"`
	FirstIndex int    `json:"first_index"`
}

type Summary struct {
	Requests    int     `json:"requests"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`

	MinMs    float64 `json:"min_ms"`
	MaxMs    float64 `json:"max_ms"`
	MeanMs   float64 `json:"mean_ms"`
	MedianMs float64 `json:"median_ms"`

	// StatusCounts is keyed by HTTP status; key NoResponse (0) holds
	// attempts that never got a response. Counts always sum to Requests.
	StatusCounts map[int]int  `json:"status_counts"`
	Errors       []ErrorGroup `json:"errors,omitempty"`

	TotalBytes int64         `json:"total_bytes"`
	Duration   time.Duration `json:"duration"`
	Aborted    bool          `json:"aborted,omitempty"`
}

// Summarize is a pure function over a sealed result; calling it twice
// yields identical summaries.
func Summarize(res *runner.Result) Summary {
	s := Summary{
		Requests:     len(res.Outcomes),
		StatusCounts: make(map[int]int),
		Duration:     res.Duration(),
		Aborted:      res.Aborted,
	}
	if s.Requests == 0 {
		return s
	}

	elapsed := make([]float64, 0, s.Requests)
	groups := make(map[string]*ErrorGroup)

	for _, o := range res.Outcomes {
		if o.Success {
			s.Succeeded++
		} else {
			s.Failed++
		}
		s.TotalBytes += o.Bytes
		s.StatusCounts[o.Status]++

		// Every outcome has an elapsed time, failures included, so the
		// latency spread always covers all attempts.
		elapsed = append(elapsed, float64(o.Elapsed.Microseconds())/1000.0)

		if o.ErrorMsg != "" {
			g, ok := groups[o.ErrorMsg]
			if !ok {
				g = &ErrorGroup{Message: o.ErrorMsg, Snippet: o.Snippet, FirstIndex: o.Index}
				groups[o.ErrorMsg] = g
			}
			g.Count++
			if o.Index < g.FirstIndex {
				g.FirstIndex = o.Index
				g.Snippet = o.Snippet
			}
		}
	}

	s.SuccessRate = float64(s.Succeeded) / float64(s.Requests) * 100

	sort.Float64s(elapsed)
	s.MinMs = elapsed[0]
	s.MaxMs = elapsed[len(elapsed)-1]
	s.MeanMs = mean(elapsed)
	s.MedianMs = median(elapsed)

	for _, g := range groups {
		s.Errors = append(s.Errors, *g)
	}
	sort.Slice(s.Errors, func(i, j int) bool {
		if s.Errors[i].Count != s.Errors[j].Count {
			return s.Errors[i].Count > s.Errors[j].Count
		}
		return s.Errors[i].FirstIndex < s.Errors[j].FirstIndex
	})

	return s
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median of a sorted slice; an even count averages the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
