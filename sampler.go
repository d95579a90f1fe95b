package mcquad

import (
	"github.com/san-kum/mcquad/internal/backend"
)

// SamplePoints draws n uniformly-distributed points inside dom using
// b's vector primitives and returns them as an n×dim tensor.
//
// Exactly one of seed and rng may be non-nil. A seed derives a fresh
// deterministic stream for this call; a caller-owned rng is advanced
// and never reset, so repeated calls sharing it continue one stream.
// With neither, a clock-seeded stream is created for the call.
//
// The function is pure with respect to program state: all statefulness
// lives in the generator object.
func SamplePoints(b backend.Backend, n int, dom *backend.Tensor, seed *uint64, rng *backend.RNG) (*backend.Tensor, error) {
	if seed != nil && rng != nil {
		return nil, ErrSeedConflict
	}
	stream := backend.Plan{Seed: seed, RNG: rng}.NewStream()
	pts := backend.NewTensor(n, dom.Rows, dom.DType, b.Name())
	backend.FillSamples(b, pts, dom, stream, make([]float64, n))
	return pts, nil
}
