package backend

import (
	"sync/atomic"

	"gonum.org/v1/gonum/floats"
)

// GraphBackend compiles by recording one concrete pipeline execution
// into a replayable program. Its direct primitives are the serial
// reference kernels; compilation is where it differs.
type GraphBackend struct {
	CPUBackend
}

func NewGraphBackend() *GraphBackend { return &GraphBackend{} }

func (g *GraphBackend) Name() string { return "graph" }

// sampleInst binds one per-dimension draw to its trace-time buffer. The
// bounds are not baked in: replay reads them from the domain argument,
// so domain values may change between calls as long as the shape does
// not.
type sampleInst struct {
	dim int
	buf []float64
}

// SampleProgram is a recorded sample stage. Its buffers and output
// tensor are allocated at trace time and reused on every replay, which
// fixes the sample count, dimensionality and dtype for the program's
// life. Replaying against a domain of a different shape is a contract
// violation with undefined behavior, not a detected error. A program is
// single-threaded, like the pipeline it was traced from.
type SampleProgram struct {
	n     int
	dim   int
	dtype DType
	seed  *uint64
	rng   *RNG
	insts []sampleInst
	out   *Tensor
}

// traceSample records the draw/scale/pack sequence of the sample stage
// by executing it once. The example draws consumed here are expected to
// differ from replay-time draws; a sampling trace cannot be checked for
// reproducibility and is not.
func (g *GraphBackend) traceSample(plan Plan) *SampleProgram {
	p := &SampleProgram{
		n:     plan.N,
		dim:   plan.Domain.Rows,
		dtype: plan.Domain.DType,
		seed:  plan.Seed,
		rng:   plan.RNG,
		out:   NewTensor(plan.N, plan.Domain.Rows, plan.Domain.DType, g.Name()),
	}
	stream := plan.NewStream()
	for d := 0; d < p.dim; d++ {
		inst := sampleInst{dim: d, buf: make([]float64, p.n)}
		stream.Fill(inst.buf)
		p.insts = append(p.insts, inst)
	}
	return p
}

// Run replays the program against domain. The returned tensor is the
// program's own buffer and is overwritten by the next replay.
func (p *SampleProgram) Run(domain *Tensor) *Tensor {
	stream := Plan{Seed: p.seed, RNG: p.rng}.NewStream()
	for _, inst := range p.insts {
		stream.Fill(inst.buf)
		lo := domain.At(inst.dim, 0)
		scale := domain.At(inst.dim, 1) - lo
		affineSerial(inst.buf, scale, lo, p.dtype)
		for i := 0; i < p.n; i++ {
			p.out.Data[i*p.dim+inst.dim] = inst.buf[i]
		}
	}
	return p.out
}

// ReduceProgram is a recorded reduce stage, frozen to the value count
// and dtype of the example it was traced from.
type ReduceProgram struct {
	n        int
	dtype    DType
	spans    []float64
	castBack bool
}

func (g *GraphBackend) traceReduce(values, domain *Tensor) *ReduceProgram {
	return &ReduceProgram{
		n:        values.Rows,
		dtype:    values.DType,
		spans:    make([]float64, domain.Rows),
		castBack: values.DType == Float32,
	}
}

// Run replays the reduction. Value batches shaped differently from the
// traced example are a contract violation with undefined results.
func (p *ReduceProgram) Run(values, domain *Tensor) float64 {
	for d := range p.spans {
		p.spans[d] = domain.At(d, 1) - domain.At(d, 0)
	}
	integral := floats.Prod(p.spans) * floats.Sum(values.Data) / float64(p.n)
	if p.castBack {
		integral = float64(float32(integral))
	}
	return integral
}

// CompileStages defers tracing to the first invocation of each stage:
// the reduce trace needs an example value batch, which only exists once
// a caller has supplied an integrand. Each traced program is published
// with a compare-and-swap; a build that loses the race is still used
// for its own invocation and then discarded, so concurrent first calls
// are harmless.
func (g *GraphBackend) CompileStages(plan Plan) (StageSet, error) {
	var sampleProg atomic.Pointer[SampleProgram]
	var reduceProg atomic.Pointer[ReduceProgram]

	sample := func(domain *Tensor) (*Tensor, error) {
		p := sampleProg.Load()
		if p == nil {
			// The local build is self-contained, so the losing side of
			// the swap still runs its own program for this call.
			p = g.traceSample(plan)
			sampleProg.CompareAndSwap(nil, p)
		}
		return p.Run(domain), nil
	}
	reduce := func(values, domain *Tensor) (float64, error) {
		p := reduceProg.Load()
		if p == nil {
			p = g.traceReduce(values, domain)
			reduceProg.CompareAndSwap(nil, p)
		}
		return p.Run(values, domain), nil
	}
	return StageSet{Sample: sample, Reduce: reduce}, nil
}
