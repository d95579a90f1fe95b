package backend

import (
	"math/rand/v2"
	"time"
)

// RNG is a uniform random stream. It is the only stateful object in the
// sampling pipeline: every draw advances the stream, and a caller that
// shares one RNG across repeated integrations continues a single stream.
// An RNG is not safe for concurrent use.
type RNG struct {
	src *rand.Rand
}

// NewSeededRNG returns a deterministic stream. Two streams built from
// the same seed produce identical draw sequences.
func NewSeededRNG(seed uint64) *RNG {
	return &RNG{src: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRNG returns a stream seeded from the clock, with no reproducibility
// guarantee.
func NewRNG() *RNG {
	return &RNG{src: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))}
}

// Float64 draws one value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Fill draws len(dst) values in [0, 1), in index order.
func (r *RNG) Fill(dst []float64) {
	for i := range dst {
		dst[i] = r.src.Float64()
	}
}
