package cloth

import "math"

// Point is a unit mass. (X, Y) is the current position and (PX, PY) the
// previous one; their difference is the implied velocity.
type Point struct {
	X, Y   float64
	PX, PY float64
	AX, AY float64
	Pinned bool
	// I, J are the grid coordinates the point was built at.
	I, J int
}

// Joint is a spring between two points, referenced by index.
type Joint struct {
	First, Second  int
	TargetLength   float64
	CurrentLength  float64
	PreviousLength float64
}

// GridCoord addresses a point by its build-time grid position.
type GridCoord struct {
	I, J int
}

type State struct {
	Points  []Point
	Joints  []Joint
	Size    int
	Spacing float64

	half  int
	index [][]int
}

// BuildTopology creates a size×size grid with i, j in [-size/2, size-size/2),
// point (i, j) at (j*spacing, i*spacing), the topmost row pinned, and joints
// to each point's right and lower neighbours.
func BuildTopology(size int, spacing float64) (*State, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return nil, ErrInvalidSpacing
	}

	half := size / 2
	s := &State{
		Points:  make([]Point, 0, size*size),
		Joints:  make([]Joint, 0, 2*size*(size-1)),
		Size:    size,
		Spacing: spacing,
		half:    half,
		index:   make([][]int, size),
	}

	for r := 0; r < size; r++ {
		s.index[r] = make([]int, size)
		i := r - half
		for c := 0; c < size; c++ {
			j := c - half
			x, y := float64(j)*spacing, float64(i)*spacing
			s.index[r][c] = len(s.Points)
			s.Points = append(s.Points, Point{
				X: x, Y: y,
				PX: x, PY: y,
				Pinned: r == 0,
				I:      i, J: j,
			})
		}
	}

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			a := s.index[r][c]
			if c+1 < size {
				s.link(a, s.index[r][c+1])
			}
			if r+1 < size {
				s.link(a, s.index[r+1][c])
			}
		}
	}

	return s, nil
}

func (s *State) link(a, b int) {
	l := s.distance(a, b)
	s.Joints = append(s.Joints, Joint{
		First:          a,
		Second:         b,
		TargetLength:   l,
		CurrentLength:  l,
		PreviousLength: l,
	})
}

func (s *State) distance(a, b int) float64 {
	pa, pb := &s.Points[a], &s.Points[b]
	return math.Hypot(pb.X-pa.X, pb.Y-pa.Y)
}

// IndexOf resolves a grid coordinate to a point index.
func (s *State) IndexOf(g GridCoord) (int, bool) {
	r, c := g.I+s.half, g.J+s.half
	if r < 0 || r >= s.Size || c < 0 || c >= s.Size {
		return 0, false
	}
	return s.index[r][c], true
}

// GridBounds returns the inclusive range of grid coordinates.
func (s *State) GridBounds() (lo, hi int) {
	return -s.half, s.Size - s.half - 1
}

// RestPosition is where a grid coordinate sits before any deformation.
func (s *State) RestPosition(g GridCoord) (x, y float64) {
	return float64(g.J) * s.Spacing, float64(g.I) * s.Spacing
}

// IsValid reports whether every coordinate is finite.
func (s *State) IsValid() bool {
	for i := range s.Points {
		p := &s.Points[i]
		for _, v := range [...]float64{p.X, p.Y, p.PX, p.PY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Extent is the largest absolute coordinate of any point.
func (s *State) Extent() float64 {
	e := 0.0
	for i := range s.Points {
		e = math.Max(e, math.Max(math.Abs(s.Points[i].X), math.Abs(s.Points[i].Y)))
	}
	return e
}

// PinnedCount returns the number of pinned points.
func (s *State) PinnedCount() int {
	n := 0
	for i := range s.Points {
		if s.Points[i].Pinned {
			n++
		}
	}
	return n
}
