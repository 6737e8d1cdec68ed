package runner

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/weavesim/internal/config"
	"github.com/san-kum/weavesim/internal/metrics"
)

// SweepPoint is the outcome of one use duration in a sweep.
type SweepPoint struct {
	UseDuration float64
	Result      *Result
	Err         error
}

// Sweep runs base once per use duration, concurrently, with the same gesture
// script. newMetrics is called once per run since metrics hold state. Points
// come back in the order of durations. A failing run does not stop the
// others; its error is kept on its point.
func Sweep(ctx context.Context, base *config.Config, durations []float64, script []config.Gesture, newMetrics func() []metrics.Metric) []SweepPoint {
	points := make([]SweepPoint, len(durations))

	var wg sync.WaitGroup
	for i, d := range durations {
		wg.Add(1)
		go func(idx int, duration float64) {
			defer wg.Done()

			cfg := *base
			cfg.UseDuration = duration

			var ms []metrics.Metric
			if newMetrics != nil {
				ms = newMetrics()
			}
			res, err := Run(ctx, &cfg, script, ms)
			points[idx] = SweepPoint{UseDuration: duration, Result: res, Err: err}
		}(i, d)
	}
	wg.Wait()

	return points
}

// Best returns the successful point with the lowest value of the named
// metric, or false when no run succeeded.
func Best(points []SweepPoint, metricName string) (SweepPoint, bool) {
	best := math.Inf(1)
	var out SweepPoint
	found := false
	for _, p := range points {
		if p.Err != nil || p.Result == nil {
			continue
		}
		v, ok := p.Result.Metrics[metricName]
		if !ok {
			continue
		}
		if v < best || !found {
			best = v
			out = p
			found = true
		}
	}
	return out, found
}
