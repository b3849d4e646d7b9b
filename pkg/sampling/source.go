// Package sampling provides the seeded random source and the weighted
// distribution engine shared by every generator. All stochastic decisions in
// the application flow through a single Source so that a fixed seed
// reproduces byte-identical output.
package sampling

import "math/rand"

// Source is the deterministic pseudo-random source for a generation run.
// It is seeded exactly once and threaded explicitly through every draw;
// no component may create an independent or time-seeded generator.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a Source seeded with the given integer seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns the next uniform value in [0.0, 1.0).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (s *Source) IntN(n int) int {
	return s.rng.Intn(n)
}

// Int63n returns a uniform value in [0, n). It panics if n <= 0.
func (s *Source) Int63n(n int64) int64 {
	return s.rng.Int63n(n)
}
