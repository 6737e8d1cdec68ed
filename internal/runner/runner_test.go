package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/weavesim/internal/cloth"
	"github.com/san-kum/weavesim/internal/config"
	"github.com/san-kum/weavesim/internal/metrics"
	"github.com/san-kum/weavesim/internal/tools"
)

func ptr[T any](v T) *T { return &v }

func testConfig(frames int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Frames = frames
	return cfg
}

type countingObserver struct{ frames []int }

func (c *countingObserver) OnFrame(frame int, s *cloth.State, t float64) {
	c.frames = append(c.frames, frame)
}

func TestRun(t *testing.T) {
	cfg := testConfig(20)
	result, err := Run(context.Background(), cfg, nil, metrics.Standard(cloth.MaxFrameDt/cloth.Substeps, 100))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Frames != 20 {
		t.Errorf("expected 20 frames, got %d", result.Frames)
	}
	if len(result.Samples) != 21 {
		t.Errorf("expected 21 samples, got %d", len(result.Samples))
	}
	if last := result.Samples[20]; last.Frame != 20 || last.Joints != 180 {
		t.Errorf("unexpected last sample: %+v", last)
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("expected stable run, got %f", result.Metrics["stability"])
	}
	if result.Metrics["kinetic"] <= 0 {
		t.Error("falling cloth should have kinetic energy")
	}
}

func TestRun_NoScriptLeavesClothIntact(t *testing.T) {
	cfg := testConfig(1)
	result, err := Run(context.Background(), cfg, nil, []metrics.Metric{metrics.NewJointLoss()})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Torn != 0 || result.Broken != 0 {
		t.Errorf("expected no lost joints, got torn=%d broken=%d", result.Torn, result.Broken)
	}
	if got := len(result.State.Joints); got != 180 {
		t.Errorf("expected 180 joints, got %d", got)
	}
	if result.Metrics["joint_loss"] != 0 {
		t.Errorf("expected joint_loss 0, got %f", result.Metrics["joint_loss"])
	}
}

func TestRun_FirstFrameLossCounted(t *testing.T) {
	cfg := testConfig(1)
	script := []config.Gesture{
		{Frame: 0, Mode: "simulate", Tool: "tear", X: ptr(0.4), Y: ptr(0.0)},
	}

	result, err := Run(context.Background(), cfg, script, []metrics.Metric{metrics.NewJointLoss()})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Torn == 0 {
		t.Fatal("expected joints torn on the first frame")
	}
	if want := float64(result.Torn + result.Broken); result.Metrics["joint_loss"] != want {
		t.Errorf("expected joint_loss %v, got %f", want, result.Metrics["joint_loss"])
	}
}

func TestRun_ScriptedTear(t *testing.T) {
	cfg := testConfig(10)
	script := []config.Gesture{
		{Frame: 0, Mode: "simulate", Tool: "tear", X: ptr(0.4), Y: ptr(0.0)},
	}

	result, err := Run(context.Background(), cfg, script, []metrics.Metric{metrics.NewJointLoss()})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Torn == 0 {
		t.Fatal("expected joints torn under the pointer")
	}
	lost := result.Torn + result.Broken
	if got := len(result.State.Joints); got != 180-lost {
		t.Errorf("expected %d joints, got %d", 180-lost, got)
	}
	if result.Metrics["joint_loss"] != float64(lost) {
		t.Errorf("expected joint_loss %d, got %f", lost, result.Metrics["joint_loss"])
	}
	if result.Samples[len(result.Samples)-1].Broken != lost {
		t.Errorf("sample should count %d lost joints", lost)
	}
}

func TestRun_ScriptedPin(t *testing.T) {
	cfg := testConfig(5)
	script := []config.Gesture{
		{Frame: 0, Mode: "paint", Tool: "pin", X: ptr(0.0), Y: ptr(3.2)},
		{Frame: 1, Tool: "disabled"},
	}

	result, err := Run(context.Background(), cfg, script, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if n := result.State.PinnedCount(); n != 11 {
		t.Errorf("expected 11 pinned points, got %d", n)
	}
}

func TestRun_SelectionPin(t *testing.T) {
	cfg := testConfig(3)
	script := []config.Gesture{
		{Frame: 0, Mode: "edit", Tool: "select", X: ptr(-4.1), Y: ptr(3.1), Drag: ptr(true)},
		{Frame: 1, X: ptr(3.3), Y: ptr(3.3)},
		{Frame: 2, Drag: ptr(false), Apply: "pin_selection"},
	}

	result, err := Run(context.Background(), cfg, script, nil)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if n := result.State.PinnedCount(); n != 20 {
		t.Errorf("expected top and bottom rows pinned, got %d", n)
	}
}

func TestRun_BadGesture(t *testing.T) {
	cfg := testConfig(5)
	script := []config.Gesture{{Frame: 2, Tool: "pin"}}

	result, err := Run(context.Background(), cfg, script, nil)
	if !errors.Is(err, ErrBadGesture) || !errors.Is(err, tools.ErrToolNotInMode) {
		t.Fatalf("expected bad gesture error, got %v", err)
	}

	var stepErr *cloth.StepError
	if !errors.As(err, &stepErr) || stepErr.Frame != 2 {
		t.Errorf("expected error at frame 2, got %v", err)
	}
	if result.Frames != 2 {
		t.Errorf("expected 2 frames before failure, got %d", result.Frames)
	}

	script = []config.Gesture{{Frame: 0, Apply: "weave"}}
	if _, err := Run(context.Background(), cfg, script, nil); !errors.Is(err, ErrBadGesture) {
		t.Errorf("expected bad gesture error, got %v", err)
	}
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, testConfig(100), nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Frames != 0 {
		t.Errorf("expected no frames, got %d", result.Frames)
	}
}

func TestRun_Unstable(t *testing.T) {
	cfg := testConfig(50)
	cfg.Overrides = config.MaterialConfig{K0: 1e30, Size: 3}
	cfg.BreakThreshold = 1e300

	_, err := Run(context.Background(), cfg, nil, nil)
	if !errors.Is(err, ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(5)
	cfg.UseDuration = -1

	if _, err := Run(context.Background(), cfg, nil, nil); !errors.Is(err, config.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestRunner_Observers(t *testing.T) {
	r := New(testConfig(4))
	obs := &countingObserver{}
	r.AddObserver(obs)

	if _, err := r.Run(context.Background(), nil); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(obs.frames) != 4 || obs.frames[0] != 1 || obs.frames[3] != 4 {
		t.Errorf("unexpected observed frames: %v", obs.frames)
	}
}
