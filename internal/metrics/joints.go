package metrics

import (
	"math"

	"github.com/san-kum/weavesim/internal/cloth"
)

// JointLoss counts joints broken or torn since the first observation.
type JointLoss struct {
	name    string
	initial int
	current int
	samples int
}

func NewJointLoss() *JointLoss {
	return &JointLoss{name: "joint_loss"}
}

func (j *JointLoss) Name() string { return j.name }

func (j *JointLoss) Observe(s *cloth.State, t float64) {
	if j.samples == 0 {
		j.initial = len(s.Joints)
	}
	j.current = len(s.Joints)
	j.samples++
}

func (j *JointLoss) Value() float64 {
	return float64(j.initial - j.current)
}

func (j *JointLoss) Reset() {
	j.initial = 0
	j.current = 0
	j.samples = 0
}

// MaxStrain is the largest relative stretch |l-l0|/l0 seen on any joint.
type MaxStrain struct {
	name string
	max  float64
}

func NewMaxStrain() *MaxStrain {
	return &MaxStrain{name: "max_strain"}
}

func (m *MaxStrain) Name() string { return m.name }

func (m *MaxStrain) Observe(s *cloth.State, t float64) {
	m.max = math.Max(m.max, Strain(s))
}

func (m *MaxStrain) Value() float64 { return m.max }

func (m *MaxStrain) Reset() { m.max = 0 }

// Strain is the largest relative stretch in s right now.
func Strain(s *cloth.State) float64 {
	worst := 0.0
	for i := range s.Joints {
		jt := &s.Joints[i]
		if jt.TargetLength == 0 {
			continue
		}
		a, b := &s.Points[jt.First], &s.Points[jt.Second]
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		worst = math.Max(worst, math.Abs(l-jt.TargetLength)/jt.TargetLength)
	}
	return worst
}
