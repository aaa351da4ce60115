package random

import (
	"math"
	"math/rand"
)

// Source is the random source driven by an evaluation.
// Implementations must be deterministic for a given seed.
// A Source must not be used by more than one evaluation at a time.
type Source interface {
	// Uniform returns a float in [lo, hi).
	Uniform(lo, hi float64) float64
	// Normal returns a gaussian distributed float.
	Normal(mean, stddev float64) float64
	// Index returns an int in [0, n). n must be positive.
	Index(n int) int
}

type Rand struct {
	seed int64
	rnd  *rand.Rand
}

var _ Source = (*Rand)(nil)

func New(seed int64) *Rand {
	return &Rand{
		seed: seed,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

func (r *Rand) Seed() int64 {
	return r.seed
}

func (r *Rand) Uniform(lo, hi float64) float64 {
	return Scale(lo, hi, r.rnd.Float64())
}

func (r *Rand) Normal(mean, stddev float64) float64 {
	return mean + stddev*r.rnd.NormFloat64()
}

func (r *Rand) Index(n int) int {
	return r.rnd.Intn(n)
}

// Scale maps f in [0, 1) to [lo, hi). Results rounded up
// to hi are replaced by the largest float below hi.
func Scale(lo, hi, f float64) float64 {
	v := lo + (hi-lo)*f
	if v >= hi && hi > lo {
		v = math.Nextafter(hi, lo)
	}
	return v
}
