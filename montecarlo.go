package mcquad

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/san-kum/mcquad/internal/backend"
)

// Integrand maps one batch of sample points (an N×dim tensor) to an
// N×1 column of function values. It is called exactly once per
// integration, on the full batch, never per point.
type Integrand func(points *backend.Tensor) *backend.Tensor

// Integrator is the contract shared by quadrature rules. Future rules
// implement it directly; there is no base type to subclass.
type Integrator interface {
	Integrate(fn Integrand, dim int, opts ...CallOption) (float64, error)
}

// MonteCarlo estimates integrals by uniform random sampling. An
// instance owns two pieces of state: the cumulative evaluation counter
// and, once a compiled entry point has been built, the compiled
// artifact. It never owns a caller-supplied RNG.
type MonteCarlo struct {
	logger   *zap.Logger
	fevals   atomic.Int64
	compiled atomic.Pointer[compiledArtifact]
}

var _ Integrator = (*MonteCarlo)(nil)

func New(opts ...Option) *MonteCarlo {
	m := &MonteCarlo{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Integrate runs the uncompiled pipeline: validate, normalize the
// domain, sample, evaluate the integrand once on the batch, reduce.
func (m *MonteCarlo) Integrate(fn Integrand, dim int, opts ...CallOption) (float64, error) {
	cfg := newCallConfig(opts)
	if err := checkInputs(dim, cfg); err != nil {
		return 0, err
	}
	m.logger.Debug("monte carlo integrating",
		zap.Int("dim", dim),
		zap.Int("n", cfg.n),
	)
	dom, b, err := normalizeDomain(dim, cfg)
	if err != nil {
		return 0, err
	}
	pts, err := m.Sample(b, cfg.n, dom, cfg.seed, cfg.rng)
	if err != nil {
		return 0, err
	}
	vals, _ := m.Evaluate(fn, pts)
	return m.Reduce(b, vals, dom, cfg.n)
}

// Sample draws n points inside dom. See SamplePoints for the seed/rng
// contract.
func (m *MonteCarlo) Sample(b backend.Backend, n int, dom *backend.Tensor, seed *uint64, rng *backend.RNG) (*backend.Tensor, error) {
	m.logger.Debug("picking random sampling points", zap.String("backend", b.Name()))
	return SamplePoints(b, n, dom, seed, rng)
}

// Evaluate invokes the integrand once on the full batch and returns the
// values together with the incremented cumulative evaluation count.
// The integrand's output shape is not validated here; a mismatch
// surfaces from the reduction step.
func (m *MonteCarlo) Evaluate(fn Integrand, pts *backend.Tensor) (*backend.Tensor, int64) {
	m.logger.Debug("evaluating integrand", zap.Int("points", pts.Rows))
	vals := fn(pts)
	return vals, m.fevals.Add(int64(pts.Rows))
}

// Reduce combines function values and domain geometry into the scalar
// estimate: volume times the mean value, narrowed back to the value
// dtype.
func (m *MonteCarlo) Reduce(b backend.Backend, vals, dom *backend.Tensor, n int) (float64, error) {
	m.logger.Debug("computing integration domain volume")
	if vals != nil && vals.Rows != n {
		return 0, fmt.Errorf("integrand returned %d values for %d sample points", vals.Rows, n)
	}
	result, err := backend.ReduceValues(b, vals, dom)
	if err != nil {
		return 0, err
	}
	m.logger.Debug("computed integral", zap.Float64("result", result))
	return result, nil
}

// Evals reports how many sample points have been passed through
// integrands by this instance, across direct and compiled calls.
func (m *MonteCarlo) Evals() int64 {
	return m.fevals.Load()
}

// Integrate runs a single integration on a throwaway instance.
func Integrate(fn Integrand, dim int, opts ...CallOption) (float64, error) {
	return New().Integrate(fn, dim, opts...)
}

// JITIntegrate builds a compiled entry point on a throwaway instance.
func JITIntegrate(dim int, opts ...CallOption) (Compiled, error) {
	return New().JITIntegrate(dim, opts...)
}
