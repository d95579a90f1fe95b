package backend

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Serial cutoff: below this length the goroutine fan-out costs more
// than it saves.
const parallelMin = 4096

// Signature keys a compiled kernel by the input shape and dtype it was
// built for.
type Signature struct {
	Len   int
	DType DType
}

// Kernel is an execution plan specialized for one signature: a fixed
// chunk partition that every run of the same signature reuses. The
// partial results are combined in chunk order, so results are
// deterministic for a given signature.
type Kernel struct {
	sig    Signature
	chunks [][2]int
}

func newKernel(sig Signature, workers int) *Kernel {
	k := &Kernel{sig: sig}
	if sig.Len < parallelMin || workers < 2 {
		k.chunks = [][2]int{{0, sig.Len}}
		return k
	}
	chunkSize := (sig.Len + workers - 1) / workers
	for start := 0; start < sig.Len; start += chunkSize {
		end := start + chunkSize
		if end > sig.Len {
			end = sig.Len
		}
		k.chunks = append(k.chunks, [2]int{start, end})
	}
	return k
}

func (k *Kernel) sum(xs []float64) float64 {
	if len(k.chunks) == 1 {
		return floats.Sum(xs)
	}
	partials := make([]float64, len(k.chunks))
	var wg sync.WaitGroup
	for w, c := range k.chunks {
		wg.Add(1)
		go func(w int, c [2]int) {
			defer wg.Done()
			partials[w] = floats.Sum(xs[c[0]:c[1]])
		}(w, c)
	}
	wg.Wait()
	return floats.Sum(partials)
}

func (k *Kernel) affine(dst []float64, scale, offset float64, dtype DType) {
	if len(k.chunks) == 1 {
		affineSerial(dst, scale, offset, dtype)
		return
	}
	var wg sync.WaitGroup
	for _, c := range k.chunks {
		wg.Add(1)
		go func(c [2]int) {
			defer wg.Done()
			affineSerial(dst[c[0]:c[1]], scale, offset, dtype)
		}(c)
	}
	wg.Wait()
}

func affineSerial(dst []float64, scale, offset float64, dtype DType) {
	floats.Scale(scale, dst)
	floats.AddConst(offset, dst)
	if dtype == Float32 {
		for i := range dst {
			dst[i] = float64(float32(dst[i]))
		}
	}
}

// ParallelBackend runs reductions and element-wise transforms on a
// worker pool. It compiles itself: kernels are built per signature on
// first use and cached, so a new input shape or dtype transparently
// gets a fresh plan while repeated shapes pay only a map lookup.
type ParallelBackend struct {
	workers int

	mu      sync.RWMutex
	kernels map[Signature]*Kernel
}

func NewParallelBackend() *ParallelBackend {
	return &ParallelBackend{
		workers: runtime.NumCPU(),
		kernels: make(map[Signature]*Kernel),
	}
}

func (p *ParallelBackend) Name() string    { return "parallel" }
func (p *ParallelBackend) Available() bool { return runtime.NumCPU() > 1 }

// Kernel returns the cached plan for sig, building it on first use.
func (p *ParallelBackend) Kernel(sig Signature) *Kernel {
	p.mu.RLock()
	k, ok := p.kernels[sig]
	p.mu.RUnlock()
	if ok {
		return k
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if k, ok = p.kernels[sig]; ok {
		return k
	}
	k = newKernel(sig, p.workers)
	p.kernels[sig] = k
	return k
}

// Uniform draws serially: the stream is single-threaded state and the
// in-order draw contract is what seeded reproducibility rests on.
func (p *ParallelBackend) Uniform(dst []float64, rng *RNG) {
	rng.Fill(dst)
}

func (p *ParallelBackend) Affine(dst []float64, scale, offset float64, dtype DType) {
	p.Kernel(Signature{Len: len(dst), DType: dtype}).affine(dst, scale, offset, dtype)
}

func (p *ParallelBackend) Sum(xs []float64) float64 {
	return p.Kernel(Signature{Len: len(xs), DType: Float64}).sum(xs)
}

func (p *ParallelBackend) Prod(xs []float64) float64 {
	return floats.Prod(xs)
}

// CompileStages wraps the sample and reduce stages over the kernel
// cache. The wrappers themselves are built once per plan; shape- or
// dtype-changing inputs recompile inside the backend without any cache
// management by the caller.
func (p *ParallelBackend) CompileStages(plan Plan) (StageSet, error) {
	sample := func(domain *Tensor) (*Tensor, error) {
		out := NewTensor(plan.N, domain.Rows, domain.DType, p.Name())
		FillSamples(p, out, domain, plan.NewStream(), make([]float64, plan.N))
		return out, nil
	}
	reduce := func(values, domain *Tensor) (float64, error) {
		return ReduceValues(p, values, domain)
	}
	return StageSet{Sample: sample, Reduce: reduce}, nil
}
