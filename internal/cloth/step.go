package cloth

import "math"

const (
	// Substeps is the number of integration steps per frame.
	Substeps = 8
	// MaxFrameDt bounds the wall-clock delta a single frame may simulate.
	MaxFrameDt = 0.016
	// MinDt is the smallest step worth integrating; below it the damping
	// velocity estimate divides by (almost) zero.
	MinDt = 1e-9

	DefaultGravity        = 10.0
	DefaultBreakThreshold = 5.6
)

// Params are the physical constants of one step. Points have unit mass, so
// forces and accelerations are interchangeable.
type Params struct {
	Gravity        float64
	K              float64
	KV             float64
	BreakThreshold float64
}

// StepReport summarizes what a step or frame did.
type StepReport struct {
	Broken  int
	Skipped bool
}

// Step advances the state by dt: accelerations are reset, spring and
// damping forces accumulated (breaking overstrained joints on the way),
// and unpinned points moved by Störmer–Verlet. Pinned points are not
// touched.
func (s *State) Step(dt float64, p Params) StepReport {
	if !(dt > MinDt) || math.IsInf(dt, 0) {
		return StepReport{Skipped: true}
	}

	for i := range s.Points {
		pt := &s.Points[i]
		pt.AX = 0
		if pt.Pinned {
			pt.AY = 0
			continue
		}
		pt.AY = p.Gravity
	}

	broken := make([]bool, len(s.Joints))
	nBroken := 0
	for n := range s.Joints {
		j := &s.Joints[n]
		a, b := &s.Points[j.First], &s.Points[j.Second]

		length := math.Hypot(b.X-a.X, b.Y-a.Y)
		j.CurrentLength = length
		e := length - j.TargetLength
		if math.Abs(e) > p.BreakThreshold {
			broken[n] = true
			nBroken++
			continue
		}

		af, bf := shares(a.Pinned, b.Pinned)
		if (af == 0 && bf == 0) || length == 0 {
			continue
		}

		dx := (b.X - a.X) / length
		dy := (b.Y - a.Y) / length
		f := springForce(e, p.K)
		v := (j.CurrentLength - j.PreviousLength) / dt
		fv := p.KV * v

		net := f - fv
		a.AX -= af * net * dx
		a.AY -= af * net * dy
		b.AX += bf * net * dx
		b.AY += bf * net * dy
	}

	if nBroken > 0 {
		s.compactJoints(broken)
	}
	for n := range s.Joints {
		s.Joints[n].PreviousLength = s.Joints[n].CurrentLength
	}

	dt2 := dt * dt
	for i := range s.Points {
		pt := &s.Points[i]
		if pt.Pinned {
			continue
		}
		nx := 2*pt.X - pt.PX + pt.AX*dt2
		ny := 2*pt.Y - pt.PY + pt.AY*dt2
		pt.PX, pt.PY = pt.X, pt.Y
		pt.X, pt.Y = nx, ny
	}

	return StepReport{Broken: nBroken}
}

// Frame clamps frameDt to MaxFrameDt and runs Substeps equal steps.
func (s *State) Frame(frameDt float64, p Params) StepReport {
	if !(frameDt > 0) || math.IsInf(frameDt, 0) {
		return StepReport{Skipped: true}
	}
	frameDt = math.Min(frameDt, MaxFrameDt)
	dt := frameDt / Substeps

	var report StepReport
	for range Substeps {
		r := s.Step(dt, p)
		report.Broken += r.Broken
		report.Skipped = report.Skipped || r.Skipped
	}
	return report
}

// springForce is the signed magnitude along a→b. Extension is penalized
// quadratically without bound; compression only past one unit, and the
// compressive term is capped there.
func springForce(e, k float64) float64 {
	ce := math.Max(0, e) - math.Max(0, -e-1)
	return -k * ce * ce * sign(ce)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// shares splits a joint's force between its endpoints by pin status.
func shares(aPinned, bPinned bool) (float64, float64) {
	switch {
	case aPinned && bPinned:
		return 0, 0
	case aPinned:
		return 0, 1
	case bPinned:
		return 1, 0
	}
	return 0.5, 0.5
}

// compactJoints drops every joint whose flag is set, keeping order.
func (s *State) compactJoints(drop []bool) int {
	kept := s.Joints[:0]
	removed := 0
	for n, j := range s.Joints {
		if drop[n] {
			removed++
			continue
		}
		kept = append(kept, j)
	}
	clear(s.Joints[len(kept):])
	s.Joints = kept
	return removed
}

// RemoveJoints drops every joint for which cut returns true and reports how
// many went.
func (s *State) RemoveJoints(cut func(j *Joint) bool) int {
	drop := make([]bool, len(s.Joints))
	hit := false
	for n := range s.Joints {
		if cut(&s.Joints[n]) {
			drop[n] = true
			hit = true
		}
	}
	if !hit {
		return 0
	}
	return s.compactJoints(drop)
}

// Pin fixes a point where it is, discarding its velocity and acceleration.
func (s *State) Pin(i int) {
	pt := &s.Points[i]
	pt.Pinned = true
	pt.PX, pt.PY = pt.X, pt.Y
	pt.AX, pt.AY = 0, 0
}

// Unpin releases a point; it starts from rest.
func (s *State) Unpin(i int) {
	pt := &s.Points[i]
	pt.Pinned = false
	pt.PX, pt.PY = pt.X, pt.Y
}
