package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/weavesim/internal/cloth"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaterial       = "cotton"
	DefaultColliderRadius = 0.7
	DefaultFrames         = 600
	DefaultFrameDt        = 1.0 / 60
)

var (
	// ErrInvalidDuration indicates a negative or non-finite use duration.
	ErrInvalidDuration = errors.New("config: use duration must be finite and non-negative")

	// ErrInvalidConfig indicates a config value outside its valid range.
	ErrInvalidConfig = errors.New("config: invalid value")
)

type Config struct {
	Material       string         `yaml:"material"`
	UseDuration    float64        `yaml:"use_duration"`
	Gravity        float64        `yaml:"gravity"`
	ColliderRadius float64        `yaml:"collider_radius"`
	BreakThreshold float64        `yaml:"break_threshold"`
	Frames         int            `yaml:"frames"`
	FrameDt        float64        `yaml:"frame_dt"`
	Overrides      MaterialConfig `yaml:"overrides"`
	Script         []Gesture      `yaml:"script,omitempty"`
}

// MaterialConfig fixes the physical and visual constants of a fabric.
type MaterialConfig struct {
	K0      float64 `yaml:"k0"`
	KV      float64 `yaml:"kv"`
	DotSize float64 `yaml:"dot_size"`
	Size    int     `yaml:"size"`
	Spacing float64 `yaml:"spacing"`
}

// Gesture is one scripted pointer event for headless runs. Mode and Tool
// use the names printed by the tools package; empty means "unchanged".
type Gesture struct {
	Frame int      `yaml:"frame"`
	Mode  string   `yaml:"mode,omitempty"`
	Tool  string   `yaml:"tool,omitempty"`
	X     *float64 `yaml:"x,omitempty"`
	Y     *float64 `yaml:"y,omitempty"`
	Drag  *bool    `yaml:"drag,omitempty"`
	Apply string   `yaml:"apply,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Material:       DefaultMaterial,
		Gravity:        cloth.DefaultGravity,
		ColliderRadius: DefaultColliderRadius,
		BreakThreshold: cloth.DefaultBreakThreshold,
		Frames:         DefaultFrames,
		FrameDt:        DefaultFrameDt,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadScript reads a yaml list of gestures.
func LoadScript(path string) ([]Gesture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var script []Gesture
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	return script, nil
}

// Stiffness ages the base stiffness: k = k0 / (0.5*(duration+1)).
func Stiffness(k0, duration float64) (float64, error) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, duration)
	}
	return k0 / (0.5 * (duration + 1)), nil
}

// Resolve looks up the preset named by the config and applies any
// non-zero overrides on top of it.
func (c *Config) Resolve() MaterialConfig {
	m := GetMaterial(c.Material)
	o := c.Overrides
	if o.K0 != 0 {
		m.K0 = o.K0
	}
	if o.KV != 0 {
		m.KV = o.KV
	}
	if o.DotSize != 0 {
		m.DotSize = o.DotSize
	}
	if o.Size != 0 {
		m.Size = o.Size
	}
	if o.Spacing != 0 {
		m.Spacing = o.Spacing
	}
	return m
}

func (c *Config) Validate() error {
	if _, err := Stiffness(1, c.UseDuration); err != nil {
		return err
	}
	m := c.Resolve()
	if m.Size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidConfig, m.Size)
	}
	if !(m.Spacing > 0) {
		return fmt.Errorf("%w: spacing %v", ErrInvalidConfig, m.Spacing)
	}
	if !(c.ColliderRadius > 0) {
		return fmt.Errorf("%w: collider radius %v", ErrInvalidConfig, c.ColliderRadius)
	}
	if !(c.BreakThreshold > 0) {
		return fmt.Errorf("%w: break threshold %v", ErrInvalidConfig, c.BreakThreshold)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames %d", ErrInvalidConfig, c.Frames)
	}
	if !(c.FrameDt > 0) {
		return fmt.Errorf("%w: frame dt %v", ErrInvalidConfig, c.FrameDt)
	}
	return nil
}

// Params derives the physics constants for the current use duration.
func (c *Config) Params() (cloth.Params, error) {
	m := c.Resolve()
	k, err := Stiffness(m.K0, c.UseDuration)
	if err != nil {
		return cloth.Params{}, err
	}
	return cloth.Params{
		Gravity:        c.Gravity,
		K:              k,
		KV:             m.KV,
		BreakThreshold: c.BreakThreshold,
	}, nil
}

// Topology builds a fresh cloth for the resolved material.
func (c *Config) Topology() (*cloth.State, error) {
	m := c.Resolve()
	return cloth.BuildTopology(m.Size, m.Spacing)
}
