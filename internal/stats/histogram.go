package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// LatencyHistogram is a mutex-guarded hdrhistogram recording attempt
// durations in microseconds.
type LatencyHistogram struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

func NewLatencyHistogram() *LatencyHistogram {
	// 1us to 10min, 3 significant figures
	return &LatencyHistogram{
		hist: hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3),
	}
}

func (h *LatencyHistogram) Record(d time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.RecordValue(d.Microseconds())
}

// QuantileMs returns the latency at quantile q (0-100) in milliseconds.
func (h *LatencyHistogram) QuantileMs(q float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.hist.ValueAtQuantile(q)) / 1000.0
}

func (h *LatencyHistogram) MeanMs() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Mean() / 1000.0
}

func (h *LatencyHistogram) MaxMs() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return float64(h.hist.Max()) / 1000.0
}
