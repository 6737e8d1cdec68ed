// Package metrics summarizes a cloth run as scalar values.
package metrics

import "github.com/san-kum/weavesim/internal/cloth"

// Metric observes the cloth after each frame.
type Metric interface {
	Name() string
	Observe(s *cloth.State, t float64)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded by every run. dt is the physics
// substep the states are produced with.
func Standard(dt, extentLimit float64) []Metric {
	return []Metric{
		NewJointLoss(),
		NewMaxStrain(),
		NewKineticEnergy(dt),
		NewStability(extentLimit),
	}
}

// Values collects each metric's current value by name.
func Values(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
