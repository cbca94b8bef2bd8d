// Package repeat re-executes one transport a fixed number of times,
// optionally rate limited, and aggregates latency percentiles.
package repeat

import (
	"context"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/BBGONE/courier/packages/transport"
)

// Options controls a repeat run. Rate is requests per second; zero means
// unthrottled.
type Options struct {
	Count int
	Rate  float64
}

// Summary aggregates one repeat run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Elapsed   time.Duration
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
	Max       time.Duration
}

// Run executes the transport opts.Count times sequentially; transports do
// not support overlapping executions, so the rate limit only spaces calls
// out. Latencies are recorded in microseconds.
func Run(ctx context.Context, t transport.Transport, opts Options) (*Summary, error) {
	if opts.Count <= 0 {
		return nil, fmt.Errorf("repeat count must be positive, got %d", opts.Count)
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}

	// 1us to 60s range, 3 significant digits, matching the latencies a
	// single HTTP exchange can plausibly take.
	hist := hdrhistogram.New(1, 60_000_000, 3)
	summary := &Summary{}

	start := time.Now()
	for i := 0; i < opts.Count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter interrupted: %w", err)
			}
		}

		ok := t.Execute(ctx)
		summary.Total++
		if ok {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		if res := t.Result(); res != nil && res.Duration > 0 {
			_ = hist.RecordValue(res.Duration.Microseconds())
		}
	}
	summary.Elapsed = time.Since(start)

	summary.P50 = time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond
	summary.P95 = time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond
	summary.P99 = time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond
	summary.Max = time.Duration(hist.Max()) * time.Microsecond

	return summary, nil
}
