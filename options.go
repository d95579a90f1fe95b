package mcquad

import (
	"go.uber.org/zap"

	"github.com/san-kum/mcquad/internal/backend"
)

// Option configures a MonteCarlo instance.
type Option func(*MonteCarlo)

// WithLogger installs a logger for stage-boundary debug output. The
// default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *MonteCarlo) {
		m.logger = l
	}
}

// CallOption configures a single Integrate or JITIntegrate call.
type CallOption func(*callConfig)

type callConfig struct {
	n           int
	domain      [][]float64
	domainT     *backend.Tensor
	seed        *uint64
	rng         *backend.RNG
	backendName string
	dtype       backend.DType
}

func newCallConfig(opts []CallOption) callConfig {
	cfg := callConfig{n: 1000, dtype: backend.Float64}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithN sets the number of sample points. Defaults to 1000.
func WithN(n int) CallOption {
	return func(c *callConfig) { c.n = n }
}

// WithDomain sets the integration domain as (lower, upper) pairs, one
// per dimension, e.g. [][]float64{{-1, 1}, {0, 1}}. The default domain
// is [-1, 1] in every dimension.
func WithDomain(bounds [][]float64) CallOption {
	return func(c *callConfig) { c.domain = bounds }
}

// WithDomainTensor sets an already-canonical domain tensor. When the
// tensor carries a backend tag, that backend is used and any
// WithBackend hint is ignored.
func WithDomainTensor(t *backend.Tensor) CallOption {
	return func(c *callConfig) { c.domainT = t }
}

// WithSeed makes sampling deterministic. Mutually exclusive with
// WithRNG.
func WithSeed(seed uint64) CallOption {
	return func(c *callConfig) { c.seed = &seed }
}

// WithRNG supplies a caller-owned random stream. The stream is advanced
// by each call and never reset, so repeated calls sharing one RNG
// continue a single random sequence. Mutually exclusive with WithSeed.
func WithRNG(r *backend.RNG) CallOption {
	return func(c *callConfig) { c.rng = r }
}

// WithBackend names the numeric backend. Ignored when the backend can
// be inferred from a domain tensor. Defaults to the registry's
// auto-selected backend.
func WithBackend(name string) CallOption {
	return func(c *callConfig) { c.backendName = name }
}

// WithDType sets the precision of the sample points and the result.
// Defaults to float64.
func WithDType(dt backend.DType) CallOption {
	return func(c *callConfig) { c.dtype = dt }
}
