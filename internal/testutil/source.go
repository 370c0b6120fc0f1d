// Package testutil provides deterministic helpers for tests.
package testutil

import "sync"

// ScriptedSource replays fixed Float64 and Intn results. Once a script is
// exhausted it keeps returning the fallback values.
type ScriptedSource struct {
	mu sync.Mutex

	floats []float64
	ints   []int

	FallbackFloat float64
	FallbackInt   int

	intnCalls []int
}

// NewScriptedSource returns a source that never triggers a refresh unless floats say so.
func NewScriptedSource(floats []float64, ints []int) *ScriptedSource {
	return &ScriptedSource{
		floats:        append([]float64(nil), floats...),
		ints:          append([]int(nil), ints...),
		FallbackFloat: 0.99,
	}
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return s.FallbackFloat
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

// Intn returns the next scripted int, reduced modulo n.
func (s *ScriptedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intnCalls = append(s.intnCalls, n)
	v := s.FallbackInt
	if len(s.ints) > 0 {
		v = s.ints[0]
		s.ints = s.ints[1:]
	}
	if n <= 0 {
		return 0
	}
	return v % n
}

// IntnCalls returns the n passed to each Intn call so far.
func (s *ScriptedSource) IntnCalls() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.intnCalls...)
}
