package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pummel/internal/report"
	"pummel/internal/runner"
	"pummel/internal/storage"
)

// Start runs a headless load test: progress on stderr-free stdout, final
// report, optional exports, history append. Ctrl+C aborts cleanly; the
// partial result is still reported.
func Start(cfg runner.Config, store *storage.Store) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	printHeader(cfg)

	updates := make(runner.UpdateChan, 100)
	r := runner.New(cfg, updates)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var res *runner.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = r.Run(gctx)
		return err
	})

	start := time.Now()
	for snap := range updates {
		printProgress(snap, start)
	}
	fmt.Println()

	if err := g.Wait(); err != nil {
		return err
	}

	summary := report.Summarize(res)
	printSummary(cfg, summary)

	if store != nil {
		if err := store.Save(storage.NewItem(res)); err != nil {
			fmt.Printf("⚠️  Could not save run to history: %v\n", err)
		}
	}

	if cfg.OutPrefix != "" {
		if err := report.ExportAll(res, cfg.OutPrefix); err != nil {
			return fmt.Errorf("writing reports: %w", err)
		}
		fmt.Printf("💾 Reports saved to %s.{csv,json} and %s_summary.json\n", cfg.OutPrefix, cfg.OutPrefix)
	}
	return nil
}

func printHeader(cfg runner.Config) {
	method := cfg.Method
	if cfg.Mode == runner.ModePage {
		method = "GET (page load)"
	}
	fmt.Printf("\n🔨 STARTING PUMMEL RUN\n")
	fmt.Printf("======================================================================\n")
	fmt.Printf("Target URL  : %s\n", cfg.URL)
	fmt.Printf("Method      : %s\n", method)
	fmt.Printf("Requests    : %d\n", cfg.Requests)
	fmt.Printf("Concurrency : %d\n", cfg.Concurrency)
	fmt.Printf("Delay       : %dms between attempts per worker\n", cfg.DelayMs)
	fmt.Printf("Timeout     : %ds\n", cfg.TimeoutSec)
	fmt.Printf("======================================================================\n\n")
}

func printProgress(s runner.Snapshot, start time.Time) {
	pct := 0.0
	if s.Total > 0 {
		pct = float64(s.Completed) / float64(s.Total)
	}
	fmt.Printf("\r%s %3.0f%% | %d/%d | Inf: %3d | OK: %d | Err: %d | p90: %.0fms | %s ",
		progressBar(pct, 20), pct*100,
		s.Completed, s.Total,
		s.Inflight,
		s.Success, s.Fail,
		s.P90Ms,
		time.Since(start).Round(time.Second),
	)
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func printSummary(cfg runner.Config, s report.Summary) {
	fmt.Printf("\n📊 RESULTS\n")
	fmt.Printf("======================================================================\n")
	if s.Aborted {
		fmt.Printf("⚠️  Run aborted: %d of %d attempts issued\n\n", s.Requests, cfg.Requests)
	}
	fmt.Printf("Total Requests : %d\n", s.Requests)
	fmt.Printf("Successful     : %d (%.1f%%)\n", s.Succeeded, s.SuccessRate)
	fmt.Printf("Failed         : %d\n", s.Failed)
	fmt.Printf("Total Bytes    : %d\n", s.TotalBytes)
	fmt.Printf("Duration       : %s\n", s.Duration.Round(time.Millisecond))
	fmt.Printf("\n⏱️  RESPONSE TIMES (ms)\n")
	fmt.Printf("   Min    : %.1f\n", s.MinMs)
	fmt.Printf("   Median : %.1f\n", s.MedianMs)
	fmt.Printf("   Mean   : %.1f\n", s.MeanMs)
	fmt.Printf("   Max    : %.1f\n", s.MaxMs)

	fmt.Printf("\n🔢 STATUS CODES\n")
	codes := make([]int, 0, len(s.StatusCounts))
	for code := range s.StatusCounts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == report.NoResponse {
			label = "no response"
		}
		fmt.Printf("   %-12s: %d\n", label, s.StatusCounts[code])
	}

	if len(s.Errors) > 0 {
		fmt.Printf("\n❌ ERRORS\n")
		for _, g := range s.Errors {
			fmt.Printf("   %d x %s\n", g.Count, g.Message)
			if g.Snippet != "" {
				fmt.Printf("       ↳ %s\n", g.Snippet)
			}
		}
	}
	fmt.Printf("======================================================================\n")
}
