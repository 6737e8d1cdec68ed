package metrics

import (
	"math"

	"github.com/san-kum/weavesim/internal/cloth"
)

// KineticEnergy is the mean per-point kinetic energy at the last
// observation, taking unit masses and the Verlet velocity (x-px)/dt.
type KineticEnergy struct {
	name    string
	dt      float64
	current float64
}

func NewKineticEnergy(dt float64) *KineticEnergy {
	return &KineticEnergy{name: "kinetic", dt: dt}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *cloth.State, t float64) {
	k.current = Kinetic(s, k.dt)
}

func (k *KineticEnergy) Value() float64 { return k.current }

func (k *KineticEnergy) Reset() { k.current = 0 }

// Kinetic returns the mean kinetic energy of the free points of s.
func Kinetic(s *cloth.State, dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	sum, n := 0.0, 0
	for i := range s.Points {
		p := &s.Points[i]
		if p.Pinned {
			continue
		}
		vx, vy := (p.X-p.PX)/dt, (p.Y-p.PY)/dt
		sum += 0.5 * (vx*vx + vy*vy)
		n++
	}
	if n == 0 || math.IsNaN(sum) {
		return 0
	}
	return sum / float64(n)
}
