// Package runner drives a cloth headlessly: scripted pointer gestures,
// the interaction tools and the physics, one frame at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/config"
	"github.com/san-kum/weavesim/internal/metrics"
	"github.com/san-kum/weavesim/internal/storage"
	"github.com/san-kum/weavesim/internal/tools"
)

var (
	// ErrUnstable indicates the cloth diverged to NaN or Inf.
	ErrUnstable = errors.New("runner: cloth became unstable")

	// ErrBadGesture indicates a scripted gesture that cannot be applied.
	ErrBadGesture = errors.New("runner: invalid gesture")
)

// Observer is called after every frame.
type Observer interface {
	OnFrame(frame int, s *cloth.State, t float64)
}

type Result struct {
	State   *cloth.State
	Samples []storage.Sample
	Metrics map[string]float64
	Frames  int
	Broken  int
	Torn    int
}

type Runner struct {
	cfg       *config.Config
	metrics   []metrics.Metric
	observers []Observer
	logger    *slog.Logger
}

func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
}

func (r *Runner) AddMetric(m metrics.Metric) { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)     { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}

// Run builds a cloth from cfg and advances it cfg.Frames frames.
func Run(ctx context.Context, cfg *config.Config, script []config.Gesture, ms []metrics.Metric) (*Result, error) {
	r := New(cfg)
	for _, m := range ms {
		r.AddMetric(m)
	}
	return r.Run(ctx, script)
}

// Run advances a fresh cloth, applying each gesture at the start of its
// frame. On cancellation or divergence the partial result is returned
// alongside the error.
func (r *Runner) Run(ctx context.Context, script []config.Gesture) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := r.cfg.Params()
	if err != nil {
		return nil, err
	}
	s, err := r.cfg.Topology()
	if err != nil {
		return nil, err
	}

	gestures := append([]config.Gesture(nil), script...)
	sort.SliceStable(gestures, func(i, j int) bool { return gestures[i].Frame < gestures[j].Frame })

	for _, m := range r.metrics {
		m.Reset()
	}

	frameDt := math.Min(r.cfg.FrameDt, cloth.MaxFrameDt)
	substep := frameDt / cloth.Substeps
	ctrl := tools.NewController(r.cfg.ColliderRadius)
	ctrl.Park(s)

	result := &Result{
		State:   s,
		Samples: make([]storage.Sample, 0, r.cfg.Frames+1),
		Metrics: make(map[string]float64),
	}
	t := 0.0
	for _, m := range r.metrics {
		m.Observe(s, t)
	}
	result.Samples = append(result.Samples, sample(0, t, s, 0, substep))

	next := 0
	for f := 0; f < r.cfg.Frames; f++ {
		select {
		case <-ctx.Done():
			r.collect(result)
			return result, ctx.Err()
		default:
		}

		for next < len(gestures) && gestures[next].Frame <= f {
			if err := applyGesture(ctrl, s, gestures[next]); err != nil {
				r.collect(result)
				return result, &cloth.StepError{Frame: f, Time: t, Wrapped: err}
			}
			next++
		}

		effect := ctrl.Apply(s)
		if effect != (tools.Effect{}) {
			r.logger.Debug("tool applied", "frame", f, "tool", ctrl.Tool().String(),
				"moved", effect.Moved, "torn", effect.Torn, "pinned", effect.Pinned,
				"unpinned", effect.Unpinned, "selected", effect.Selected)
		}
		result.Torn += effect.Torn

		rep := s.Frame(r.cfg.FrameDt, params)
		result.Broken += rep.Broken
		t += frameDt
		result.Frames++

		if !s.IsValid() {
			r.logger.Warn("cloth diverged", "frame", f, "time", t)
			r.collect(result)
			return result, &cloth.StepError{Frame: f, Time: t, Wrapped: ErrUnstable}
		}

		for _, m := range r.metrics {
			m.Observe(s, t)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f+1, s, t)
		}
		result.Samples = append(result.Samples, sample(f+1, t, s, result.Broken+result.Torn, substep))
	}

	r.collect(result)
	return result, nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sample(frame int, t float64, s *cloth.State, lost int, dt float64) storage.Sample {
	return storage.Sample{
		Frame:     frame,
		Time:      t,
		Joints:    len(s.Joints),
		Broken:    lost,
		MaxStrain: metrics.Strain(s),
		Kinetic:   metrics.Kinetic(s, dt),
	}
}

func applyGesture(c *tools.Controller, s *cloth.State, g config.Gesture) error {
	if g.Mode != "" {
		m, err := tools.ParseMode(g.Mode)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadGesture, err)
		}
		if err := c.SetMode(m); err != nil {
			return fmt.Errorf("%w: %w", ErrBadGesture, err)
		}
	}
	if g.Tool != "" {
		t, err := tools.ParseTool(g.Tool)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBadGesture, err)
		}
		if err := c.SetTool(t); err != nil {
			return fmt.Errorf("%w: %w", ErrBadGesture, err)
		}
	}
	if g.X != nil || g.Y != nil {
		x, y := c.Pointer()
		if g.X != nil {
			x = *g.X
		}
		if g.Y != nil {
			y = *g.Y
		}
		c.SetPointer(x, y)
	}
	if g.Drag != nil {
		if *g.Drag {
			c.BeginDrag()
		} else {
			c.EndDrag()
		}
	}

	switch g.Apply {
	case "":
	case "pin_selection":
		c.PinSelection(s)
	case "unpin_selection":
		c.UnpinSelection(s)
	case "clear_selection":
		c.ClearSelection()
	default:
		return fmt.Errorf("%w: unknown action %q", ErrBadGesture, g.Apply)
	}
	return nil
}
