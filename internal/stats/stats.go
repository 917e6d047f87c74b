package stats

import (
	"sync/atomic"
	"time"
)

// Stats holds the live counters a run updates as attempts complete.
// Counters are atomic; the latency histogram carries its own lock.
type Stats struct {
	Completed uint64
	Success   uint64
	Fail      uint64
	Bytes     uint64

	Latency *LatencyHistogram
}

func NewStats() *Stats {
	return &Stats{Latency: NewLatencyHistogram()}
}

func (s *Stats) Add(success bool, bytes int64, elapsed time.Duration) {
	atomic.AddUint64(&s.Completed, 1)
	if success {
		atomic.AddUint64(&s.Success, 1)
	} else {
		atomic.AddUint64(&s.Fail, 1)
	}
	if bytes > 0 {
		atomic.AddUint64(&s.Bytes, uint64(bytes))
	}
	s.Latency.Record(elapsed)
}

func (s *Stats) ErrorRate() float64 {
	done := atomic.LoadUint64(&s.Completed)
	if done == 0 {
		return 0
	}
	return float64(atomic.LoadUint64(&s.Fail)) / float64(done) * 100
}
