package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Material != "cotton" {
		t.Errorf("expected material cotton, got %s", cfg.Material)
	}
	if cfg.FrameDt <= 0 {
		t.Error("frame dt should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("silk")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	m := cfg.Resolve()
	if m.K0 != 20000 || m.Size != 20 || m.Spacing != 0.4 {
		t.Errorf("unexpected silk material: %+v", m)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("denim"); cfg != nil {
		t.Error("expected nil for unknown material")
	}
}

func TestGetMaterial_FallsBackToCotton(t *testing.T) {
	if GetMaterial("denim") != Materials["cotton"] {
		t.Error("unknown material should resolve to cotton")
	}
}

func TestListPresets(t *testing.T) {
	got := ListPresets()
	want := []string{"cotton", "polyester", "silk", "wool"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestStiffness(t *testing.T) {
	tests := []struct {
		k0, duration, want float64
	}{
		{200000, 0, 400000},
		{200000, 1, 200000},
		{20000, 9, 4000},
	}
	for _, tt := range tests {
		got, err := Stiffness(tt.k0, tt.duration)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Stiffness(%v, %v) = %v, want %v", tt.k0, tt.duration, got, tt.want)
		}
	}
}

func TestStiffness_InvalidDuration(t *testing.T) {
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		if _, err := Stiffness(1, d); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %v: expected ErrInvalidDuration, got %v", d, err)
		}
	}
}

func TestResolve_Overrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Material = "wool"
	cfg.Overrides = MaterialConfig{Size: 5, KV: 7}

	m := cfg.Resolve()
	if m.Size != 5 || m.KV != 7 {
		t.Errorf("overrides not applied: %+v", m)
	}
	if m.K0 != 200000 || m.Spacing != 0.8 {
		t.Errorf("preset values lost: %+v", m)
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Material = "polyester"
	cfg.UseDuration = 3

	p, err := cfg.Params()
	if err != nil {
		t.Fatalf("params failed: %v", err)
	}
	if p.K != 200000 {
		t.Errorf("expected k 200000, got %f", p.K)
	}
	if p.KV != 20 || p.Gravity != 10 || p.BreakThreshold != 5.6 {
		t.Errorf("unexpected params: %+v", p)
	}

	cfg.UseDuration = -2
	if _, err := cfg.Params(); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative size", func(c *Config) { c.Overrides.Size = -1 }},
		{"negative spacing", func(c *Config) { c.Overrides.Spacing = -0.5 }},
		{"zero radius", func(c *Config) { c.ColliderRadius = 0 }},
		{"zero threshold", func(c *Config) { c.BreakThreshold = 0 }},
		{"negative frames", func(c *Config) { c.Frames = -1 }},
		{"zero frame dt", func(c *Config) { c.FrameDt = 0 }},
		{"nan duration", func(c *Config) { c.UseDuration = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.yaml")
	x, drag := 1.5, true

	cfg := DefaultConfig()
	cfg.Material = "silk"
	cfg.UseDuration = 4
	cfg.Script = []Gesture{{Frame: 10, Mode: "simulate", Tool: "tear", X: &x, Drag: &drag}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got.Material != "silk" || got.UseDuration != 4 {
		t.Errorf("unexpected config: %+v", got)
	}
	if len(got.Script) != 1 || got.Script[0].Tool != "tear" || *got.Script[0].X != 1.5 || got.Script[0].Y != nil {
		t.Errorf("unexpected script: %+v", got.Script)
	}
}

func TestTopology(t *testing.T) {
	cfg := GetPreset("wool")
	s, err := cfg.Topology()
	if err != nil {
		t.Fatalf("topology failed: %v", err)
	}
	if len(s.Points) != 64 {
		t.Errorf("expected 64 points, got %d", len(s.Points))
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	data := `
- frame: 0
  mode: edit
  tool: select
  x: -1
  y: -1
  drag: true
- frame: 30
  drag: false
  apply: pin_selection
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	script, err := LoadScript(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(script) != 2 {
		t.Fatalf("expected 2 gestures, got %d", len(script))
	}
	if script[0].Tool != "select" || *script[0].X != -1 || !*script[0].Drag {
		t.Errorf("unexpected first gesture: %+v", script[0])
	}
	if script[1].Frame != 30 || script[1].X != nil || script[1].Apply != "pin_selection" {
		t.Errorf("unexpected second gesture: %+v", script[1])
	}
}
