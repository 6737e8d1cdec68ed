package metrics

import (
	"github.com/san-kum/weavesim/internal/cloth"
)

// Stability is the fraction of observations in which the cloth stayed
// finite and within limit of the origin.
type Stability struct {
	name       string
	limit      float64
	violations int
	samples    int
}

func NewStability(limit float64) *Stability {
	return &Stability{
		name:  "stability",
		limit: limit,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(st *cloth.State, t float64) {
	s.samples++
	if !st.IsValid() || st.Extent() > s.limit {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
