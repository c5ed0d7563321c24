package engine

import "math/rand/v2"

// Rand is the random source the engine draws from. Tests inject a scripted
// implementation to make every roll deterministic.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n is always positive.
	IntN(n int) int
}

type countingSource struct {
	src   rand.Source
	draws uint64
}

func (c *countingSource) Uint64() uint64 {
	c.draws++
	return c.src.Uint64()
}

// seededRand is a PCG stream that remembers its seed and how far it has
// advanced so a restored run can continue the same stream.
type seededRand struct {
	*rand.Rand
	seed int64
	src  *countingSource
}

func newSeededRand(seed int64, skip uint64) *seededRand {
	src := &countingSource{src: rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)}
	for src.draws < skip {
		src.Uint64()
	}
	return &seededRand{Rand: rand.New(src), seed: seed, src: src}
}

func (r *seededRand) draws() uint64 {
	return r.src.draws
}
