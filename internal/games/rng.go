package games

import "math/rand/v2"

// Source supplies uniform randomness to resolvers. It is injected rather
// than reached for globally so outcomes are reproducible in tests and the
// generator can be swapped for a cryptographically strong one in a
// real-money deployment.
type Source interface {
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

type systemSource struct{}

func (systemSource) IntN(n int) int   { return rand.IntN(n) }
func (systemSource) Float64() float64 { return rand.Float64() }

// NewSource returns the default generator backed by math/rand/v2.
func NewSource() Source {
	return systemSource{}
}

// SequenceSource replays fixed values, for deterministic tests. Each slice
// is consumed in order and wraps around when exhausted.
type SequenceSource struct {
	Ints   []int
	Floats []float64

	i, f int
}

func (s *SequenceSource) IntN(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.i%len(s.Ints)] % n
	s.i++
	return v
}

func (s *SequenceSource) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}
