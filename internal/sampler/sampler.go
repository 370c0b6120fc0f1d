// Package sampler produces the simulated robot metrics.
package sampler

import (
	"math/rand"
	"time"
)

// Source is the random number source behind a Sampler. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// Sampler draws probabilities and bounded integers from a Source.
type Sampler struct {
	rnd Source
}

// New returns a Sampler seeded with the current time.
func New() *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns a Sampler over src.
func NewWithSource(src Source) *Sampler {
	return &Sampler{rnd: src}
}

// Chance reports true with probability p.
func (s *Sampler) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rnd.Float64() < p
}

// IntBetween returns a uniform integer in [lo, hi].
func (s *Sampler) IntBetween(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + s.rnd.Intn(hi-lo+1)
}
