package runner

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"pummel/internal/stats"
)

// Snapshot is pushed over the updates channel while a run is in flight.
type Snapshot struct {
	Total     int
	Completed uint64
	Success   uint64
	Fail      uint64
	Bytes     uint64
	Inflight  int64

	// Pre-calculated latency figures for the UI (cheap copy)
	P50Ms  float64
	P90Ms  float64
	P99Ms  float64
	MaxMs  float64
	MeanMs float64
}

type UpdateChan chan Snapshot

// Runner issues exactly Cfg.Requests attempts across Cfg.Concurrency
// workers and returns the sealed Result. One Runner serves one run.
type Runner struct {
	Cfg     Config
	Stats   *stats.Stats
	Client  *http.Client
	Updates UpdateChan

	inflight int64
}

func New(cfg Config, updates UpdateChan) *Runner {
	cfg.Normalize()

	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 200
	t.MaxConnsPerHost = 200
	t.MaxIdleConnsPerHost = 200
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	if updates == nil {
		// Avoid nil panics if the caller does not want updates
		updates = make(UpdateChan, 10)
	}

	return &Runner{
		Cfg:   cfg,
		Stats: stats.NewStats(),
		Client: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: t,
		},
		Updates: updates,
	}
}

// Run validates the config, performs every attempt and returns the sealed
// result. It blocks until all workers have drained the index counter. The
// context only stops new attempts from being claimed; in-flight requests
// run to completion (bounded by the client timeout), so a cancelled run
// still seals cleanly with the claimed prefix and Aborted set.
//
// The only error Run can return is a *ValidationError; no request is sent
// in that case. Run closes the Updates channel when it returns.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	if err := r.Cfg.Validate(); err != nil {
		close(r.Updates)
		return nil, err
	}

	total := r.Cfg.Requests
	workers := r.Cfg.Concurrency
	if workers > total {
		// Excess workers would exit without claiming anything anyway.
		workers = total
	}
	delay := time.Duration(r.Cfg.DelayMs) * time.Millisecond

	// Outcomes are index-addressed: the counter hands each index to
	// exactly one worker, so slots are written without overlap and the
	// sealed slice is already in issue order.
	outcomes := make([]Outcome, total)
	var next uint64

	tickCtx, stopTick := context.WithCancel(context.Background())
	tickDone := r.startTicker(tickCtx, 200*time.Millisecond)

	startedAt := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			first := true
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				i := atomic.AddUint64(&next, 1) - 1
				if i >= uint64(total) {
					return
				}
				if delay > 0 && !first {
					time.Sleep(delay)
				}
				first = false
				out := r.execute(int(i))
				outcomes[i] = out
				r.Stats.Add(out.Success, out.Bytes, out.Elapsed)
			}
		}()
	}
	wg.Wait()

	finishedAt := time.Now()

	stopTick()
	<-tickDone
	r.sendUpdate()
	close(r.Updates)

	issued := int(atomic.LoadUint64(&next))
	if issued > total {
		issued = total
	}

	return &Result{
		Config:     r.Cfg,
		Outcomes:   outcomes[:issued],
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Aborted:    issued < total,
	}, nil
}

func (r *Runner) startTicker(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sendUpdate()
			}
		}
	}()
	return done
}

func (r *Runner) sendUpdate() {
	s := Snapshot{
		Total:     r.Cfg.Requests,
		Completed: atomic.LoadUint64(&r.Stats.Completed),
		Success:   atomic.LoadUint64(&r.Stats.Success),
		Fail:      atomic.LoadUint64(&r.Stats.Fail),
		Bytes:     atomic.LoadUint64(&r.Stats.Bytes),
		Inflight:  atomic.LoadInt64(&r.inflight),
		P50Ms:     r.Stats.Latency.QuantileMs(50),
		P90Ms:     r.Stats.Latency.QuantileMs(90),
		P99Ms:     r.Stats.Latency.QuantileMs(99),
		MaxMs:     r.Stats.Latency.MaxMs(),
		MeanMs:    r.Stats.Latency.MeanMs(),
	}

	// Non-blocking send; the consumer acts as backpressure
	select {
	case r.Updates <- s:
	default:
	}
}

func (r *Runner) Inflight() int64 {
	return atomic.LoadInt64(&r.inflight)
}
