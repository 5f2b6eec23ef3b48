// Package rng provides the pseudorandom stream used by weighted selection.
// A stream seeded with the same value always yields the same draws.
package rng

import (
	"math/rand"
	"time"
)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every draw, enabling replay to a known point.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// New creates a deterministic stream from seed.
func New(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// NewRandom creates a stream seeded from the wall clock. Results are not
// reproducible; Seed still reports the value used.
func NewRandom() *RNG {
	return New(time.Now().UnixNano())
}

// ForQuery returns a deterministic stream for a non-zero seed and a
// non-reproducible one for seed 0.
func ForQuery(seed int64) *RNG {
	if seed == 0 {
		return NewRandom()
	}
	return New(seed)
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	r.pos++
	return r.src.Float64()
}

// Intn returns a uniform integer in [0, n). n must be positive.
func (r *RNG) Intn(n int) int {
	r.pos++
	return r.src.Intn(n)
}

// Seed returns the seed the stream was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Restore creates a stream and replays it to position. Replay is exact for
// streams that drew with Float64 only; Intn may consume extra source values.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.src.Int63()
	}
	r.pos = position
	return r
}
