package backend

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by Lookup for names outside the
// registered set.
var ErrUnknownBackend = errors.New("unknown backend")

// Backend is a vectorized numeric engine. Implementations supply the
// primitives the integration pipeline is built from; they never decide
// draw order or reduction semantics themselves.
type Backend interface {
	Name() string
	Available() bool

	// Uniform fills dst with draws from rng in [0, 1), in index order.
	// The draw order is part of the contract: it is what makes seeded
	// sampling reproducible across backends.
	Uniform(dst []float64, rng *RNG)

	// Affine maps dst[i] = dst[i]*scale + offset in place, rounding to
	// dtype precision.
	Affine(dst []float64, scale, offset float64, dtype DType)

	Sum(xs []float64) float64
	Prod(xs []float64) float64
}

// Plan fixes the parameters of a compiled integration pipeline: the
// sample count and, when given, the seed or caller-owned stream.
type Plan struct {
	N      int
	Domain *Tensor
	Seed   *uint64
	RNG    *RNG
}

// NewStream resolves the generator for one pipeline execution. A seeded
// plan derives a fresh stream from the seed every time, which is what
// keeps compiled and uncompiled runs of the same seed identical. A plan
// holding a caller-owned RNG keeps advancing that shared stream.
func (p Plan) NewStream() *RNG {
	switch {
	case p.Seed != nil:
		return NewSeededRNG(*p.Seed)
	case p.RNG != nil:
		return p.RNG
	default:
		return NewRNG()
	}
}

// StageSet bundles the two compiled pipeline stages. The integrand
// evaluation stage between them stays uncompiled and is threaded by the
// caller.
type StageSet struct {
	// Sample draws the plan's batch of points inside domain.
	Sample func(domain *Tensor) (*Tensor, error)
	// Reduce folds integrand values and domain geometry into the
	// estimate. Trace-model backends freeze the value shape and dtype
	// observed on the first call.
	Reduce func(values, domain *Tensor) (float64, error)
}

// Compiler is implemented by backends that support ahead-of-time
// specialization of the sample and reduce stages. Each implementation
// carries its own compilation model; backends without one simply do not
// satisfy this interface.
type Compiler interface {
	Backend
	CompileStages(plan Plan) (StageSet, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

func init() {
	Register(NewCPUBackend())
	Register(NewParallelBackend())
	Register(NewGraphBackend())
}

// Register adds b to the lookup table, replacing any backend of the
// same name.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Name()] = b
}

// Lookup resolves a backend by name.
func Lookup(name string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	return b, nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default picks the best available backend: parallel kernels on
// multicore machines, serial otherwise.
func Default() Backend {
	name := "cpu"
	if runtime.NumCPU() > 1 {
		name = "parallel"
	}
	b, err := Lookup(name)
	if err != nil {
		b, _ = Lookup("cpu")
	}
	return b
}
