package rng

import "math/rand"

// Generator provides a simple random number
type Generator interface {
	// Intn will return a random number up to but not including n
	Intn(n int) int
}

// FromSeed returns a generator for dealing
// A seed of zero means a cryptographically secure generator, anything else is a
// reproducible sequence meant for local testing
func FromSeed(seed int64) Generator {
	if seed == 0 {
		return Crypto{}
	}

	return rand.New(rand.NewSource(seed)) // nolint:gosec
}
