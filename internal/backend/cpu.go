package backend

import "gonum.org/v1/gonum/floats"

// CPUBackend runs every primitive serially. It is the reference
// implementation the other backends are checked against, and the
// fallback when nothing better is available.
type CPUBackend struct{}

func NewCPUBackend() *CPUBackend { return &CPUBackend{} }

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }

func (c *CPUBackend) Uniform(dst []float64, rng *RNG) {
	rng.Fill(dst)
}

func (c *CPUBackend) Affine(dst []float64, scale, offset float64, dtype DType) {
	floats.Scale(scale, dst)
	floats.AddConst(offset, dst)
	if dtype == Float32 {
		for i := range dst {
			dst[i] = float64(float32(dst[i]))
		}
	}
}

func (c *CPUBackend) Sum(xs []float64) float64 {
	return floats.Sum(xs)
}

func (c *CPUBackend) Prod(xs []float64) float64 {
	return floats.Prod(xs)
}
