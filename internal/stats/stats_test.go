package stats

import (
	"sync"
	"testing"
	"time"
)

func TestStatsCounters(t *testing.T) {
	s := NewStats()
	s.Add(true, 100, 10*time.Millisecond)
	s.Add(true, 50, 20*time.Millisecond)
	s.Add(false, 0, 30*time.Millisecond)

	if s.Completed != 3 || s.Success != 2 || s.Fail != 1 {
		t.Fatalf("counters %d/%d/%d", s.Completed, s.Success, s.Fail)
	}
	if s.Bytes != 150 {
		t.Errorf("bytes %d", s.Bytes)
	}
	if got := s.ErrorRate(); got < 33.3 || got > 33.4 {
		t.Errorf("error rate %.2f", got)
	}
}

func TestErrorRateEmpty(t *testing.T) {
	if got := NewStats().ErrorRate(); got != 0 {
		t.Errorf("error rate with no data: %.2f", got)
	}
}

func TestLatencyHistogramQuantiles(t *testing.T) {
	h := NewLatencyHistogram()
	for i := 1; i <= 100; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	// hdrhistogram is approximate; allow slack around the true values
	if p50 := h.QuantileMs(50); p50 < 45 || p50 > 55 {
		t.Errorf("p50 %.1f", p50)
	}
	if p99 := h.QuantileMs(99); p99 < 95 || p99 > 101 {
		t.Errorf("p99 %.1f", p99)
	}
	if max := h.MaxMs(); max < 99 || max > 101 {
		t.Errorf("max %.1f", max)
	}
}

func TestStatsConcurrentAdd(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Add(i%2 == 0, 10, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if s.Completed != 800 {
		t.Fatalf("completed %d, want 800", s.Completed)
	}
	if s.Success+s.Fail != 800 {
		t.Fatalf("success+fail %d", s.Success+s.Fail)
	}
}
