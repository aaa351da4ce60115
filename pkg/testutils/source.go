package testutils

import (
	"github.com/mandelsoft/fakir/pkg/random"
)

type script struct {
	values []float64
	pos    int
}

var _ random.Source = (*script)(nil)

// Script provides a source replaying a fixed sequence of
// values in [0, 1), starting over at the end.
func Script(values ...float64) random.Source {
	return &script{values: values}
}

func (s *script) next() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func (s *script) Uniform(lo, hi float64) float64 {
	return random.Scale(lo, hi, s.next())
}

func (s *script) Normal(mean, stddev float64) float64 {
	return mean + stddev*s.next()
}

func (s *script) Index(n int) int {
	return int(s.next() * float64(n))
}
