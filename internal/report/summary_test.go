package report

import (
	"reflect"
	"testing"
	"time"

	"pummel/internal/runner"
)

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func sealed(outcomes []runner.Outcome) *runner.Result {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &runner.Result{
		Config:     runner.Config{Requests: len(outcomes)},
		Outcomes:   outcomes,
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
	}
}

func TestSummarizeSuccessRateAndHistogram(t *testing.T) {
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 200, Elapsed: ms(10), Success: true, Bytes: 100},
		{Index: 1, Status: 200, Elapsed: ms(20), Success: true, Bytes: 100},
		{Index: 2, Status: 404, Elapsed: ms(30), ErrorMsg: "HTTP 404 Not Found"},
		{Index: 3, Status: 0, Elapsed: ms(40), ErrorMsg: "timeout"},
	})

	s := Summarize(res)

	if s.Requests != 4 || s.Succeeded != 2 || s.Failed != 2 {
		t.Fatalf("counts: %d/%d/%d", s.Requests, s.Succeeded, s.Failed)
	}
	if s.SuccessRate != 50.0 {
		t.Errorf("success rate %.2f, want 50", s.SuccessRate)
	}
	if s.TotalBytes != 200 {
		t.Errorf("bytes %d", s.TotalBytes)
	}

	sum := 0
	for _, n := range s.StatusCounts {
		sum += n
	}
	if sum != 4 {
		t.Errorf("histogram counts sum to %d, want 4", sum)
	}
	if s.StatusCounts[NoResponse] != 1 {
		t.Errorf("no-response bucket %d, want 1", s.StatusCounts[NoResponse])
	}
	if s.StatusCounts[200] != 2 || s.StatusCounts[404] != 1 {
		t.Errorf("histogram %v", s.StatusCounts)
	}
}

func TestSummarizeTimingSpansAllOutcomes(t *testing.T) {
	// Failures carry elapsed time too and must be included.
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 200, Elapsed: ms(10), Success: true},
		{Index: 1, Status: 0, Elapsed: ms(50), ErrorMsg: "timeout"},
		{Index: 2, Status: 200, Elapsed: ms(30), Success: true},
	})

	s := Summarize(res)

	if s.MinMs != 10 || s.MaxMs != 50 {
		t.Errorf("min/max %.1f/%.1f", s.MinMs, s.MaxMs)
	}
	if s.MeanMs != 30 {
		t.Errorf("mean %.1f, want 30", s.MeanMs)
	}
	if s.MedianMs != 30 {
		t.Errorf("odd median %.1f, want 30", s.MedianMs)
	}
}

func TestSummarizeMedianEvenCount(t *testing.T) {
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 200, Elapsed: ms(10), Success: true},
		{Index: 1, Status: 200, Elapsed: ms(20), Success: true},
		{Index: 2, Status: 200, Elapsed: ms(40), Success: true},
		{Index: 3, Status: 200, Elapsed: ms(100), Success: true},
	})

	if s := Summarize(res); s.MedianMs != 30 {
		t.Errorf("even median %.1f, want 30 (mean of middle pair)", s.MedianMs)
	}
}

func TestSummarizeErrorGrouping(t *testing.T) {
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 503, Elapsed: ms(1), ErrorMsg: "HTTP 503 Service Unavailable", Snippet: "down"},
		{Index: 1, Status: 0, Elapsed: ms(1), ErrorMsg: "timeout"},
		{Index: 2, Status: 503, Elapsed: ms(1), ErrorMsg: "HTTP 503 Service Unavailable", Snippet: "later"},
		{Index: 3, Status: 0, Elapsed: ms(1), ErrorMsg: "connection refused"},
		{Index: 4, Status: 0, Elapsed: ms(1), ErrorMsg: "timeout"},
	})

	s := Summarize(res)

	if len(s.Errors) != 3 {
		t.Fatalf("got %d error groups, want 3", len(s.Errors))
	}
	// 503 and timeout both have count 2; 503 appeared first (index 0).
	if s.Errors[0].Message != "HTTP 503 Service Unavailable" || s.Errors[0].Count != 2 {
		t.Errorf("first group %+v", s.Errors[0])
	}
	if s.Errors[0].Snippet != "down" {
		t.Errorf("representative snippet %q, want earliest", s.Errors[0].Snippet)
	}
	if s.Errors[1].Message != "timeout" || s.Errors[1].Count != 2 {
		t.Errorf("second group %+v", s.Errors[1])
	}
	if s.Errors[2].Message != "connection refused" || s.Errors[2].Count != 1 {
		t.Errorf("third group %+v", s.Errors[2])
	}
}

func TestSummarizeAllFailedTransport(t *testing.T) {
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 0, Elapsed: ms(5), ErrorMsg: "connection refused"},
		{Index: 1, Status: 0, Elapsed: ms(5), ErrorMsg: "connection refused"},
		{Index: 2, Status: 0, Elapsed: ms(5), ErrorMsg: "connection refused"},
	})

	s := Summarize(res)

	if s.SuccessRate != 0 {
		t.Errorf("success rate %.1f, want 0", s.SuccessRate)
	}
	if s.StatusCounts[NoResponse] != 3 || len(s.StatusCounts) != 1 {
		t.Errorf("histogram %v", s.StatusCounts)
	}
	if len(s.Errors) != 1 || s.Errors[0].Count != 3 {
		t.Errorf("errors %+v", s.Errors)
	}
}

func TestSummarizeIsPure(t *testing.T) {
	res := sealed([]runner.Outcome{
		{Index: 0, Status: 200, Elapsed: ms(12), Success: true},
		{Index: 1, Status: 500, Elapsed: ms(7), ErrorMsg: "HTTP 500 Internal Server Error"},
		{Index: 2, Status: 0, Elapsed: ms(90), ErrorMsg: "timeout"},
	})

	a := Summarize(res)
	b := Summarize(res)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("summaries differ:\n%+v\n%+v", a, b)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(sealed(nil))
	if s.Requests != 0 || s.SuccessRate != 0 || len(s.Errors) != 0 {
		t.Errorf("empty summary %+v", s)
	}
}
