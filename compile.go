package mcquad

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/mcquad/internal/backend"
)

// Compiled is the entry point returned by JITIntegrate. The domain
// argument may be nil to reuse the domain fixed at build time; for
// graph-model backends any domain passed later must keep the shape of
// the build-time domain.
type Compiled func(fn Integrand, domain *backend.Tensor) (float64, error)

// compiledArtifact is the per-instance bundle of backend-specialized
// stages plus the metadata identifying what produced it. The slot
// holding it starts empty and is set exactly once.
type compiledArtifact struct {
	backendName string
	n           int
	stages      backend.StageSet
}

// JITIntegrate returns an integrate function with the sample and reduce
// stages specialized ahead of time for the resolved backend; the
// integrand stage stays uncompiled because the integrand is arbitrary
// user code supplied fresh on every call.
//
// The specialization model is the backend's own: graph-model backends
// defer tracing to the first invocation of the returned function and
// freeze the shapes observed there, signature-keyed backends recompile
// transparently inside their own cache. Backends without a compilation
// model fail with ErrUnsupportedBackend before any partial work.
//
// The artifact is cached on the instance: later JITIntegrate calls on
// the same instance reuse it. Concurrent first builds are safe; a
// build that loses the publish race is discarded in favor of the
// stored, equivalent artifact.
func (m *MonteCarlo) JITIntegrate(dim int, opts ...CallOption) (Compiled, error) {
	cfg := newCallConfig(opts)
	if err := checkInputs(dim, cfg); err != nil {
		return nil, err
	}
	dom, b, err := normalizeDomain(dim, cfg)
	if err != nil {
		return nil, err
	}
	comp, ok := b.(backend.Compiler)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnsupportedBackend, b.Name())
	}

	art := m.compiled.Load()
	if art == nil {
		stages, err := comp.CompileStages(backend.Plan{
			N:      cfg.n,
			Domain: dom,
			Seed:   cfg.seed,
			RNG:    cfg.rng,
		})
		if err != nil {
			return nil, err
		}
		built := &compiledArtifact{backendName: b.Name(), n: cfg.n, stages: stages}
		if m.compiled.CompareAndSwap(nil, built) {
			m.logger.Debug("compiled integration stages",
				zap.String("backend", b.Name()),
				zap.Int("n", cfg.n),
			)
			art = built
		} else {
			// Lost a concurrent build; the stored artifact is
			// equivalent and the local one is dropped.
			art = m.compiled.Load()
		}
	}

	entry := func(fn Integrand, domain *backend.Tensor) (float64, error) {
		if domain == nil {
			domain = dom
		}
		pts, err := art.stages.Sample(domain)
		if err != nil {
			return 0, err
		}
		vals, _ := m.Evaluate(fn, pts)
		return art.stages.Reduce(vals, domain)
	}
	return entry, nil
}
