package backend

import "fmt"

// DType identifies the floating-point precision a tensor's values are
// meant to carry. Storage is always float64; Float32 values are rounded
// to float32 precision at every operation boundary.
type DType int

const (
	Float64 DType = iota
	Float32
)

func (d DType) String() string {
	switch d {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// ParseDType maps a dtype name to its DType.
func ParseDType(name string) (DType, error) {
	switch name {
	case "", "float64", "f64":
		return Float64, nil
	case "float32", "f32":
		return Float32, nil
	}
	return Float64, fmt.Errorf("unknown dtype: %s", name)
}

// Round narrows v to the precision of d.
func (d DType) Round(v float64) float64 {
	if d == Float32 {
		return float64(float32(v))
	}
	return v
}

// Tensor is a dense row-major matrix tagged with its dtype and the name
// of the backend that produced it. A tensor with an empty Backend tag
// carries no origin information.
type Tensor struct {
	Data    []float64
	Rows    int
	Cols    int
	DType   DType
	Backend string
}

// NewTensor allocates a zeroed rows×cols tensor.
func NewTensor(rows, cols int, dtype DType, backendName string) *Tensor {
	return &Tensor{
		Data:    make([]float64, rows*cols),
		Rows:    rows,
		Cols:    cols,
		DType:   dtype,
		Backend: backendName,
	}
}

func (t *Tensor) At(i, j int) float64 {
	return t.Data[i*t.Cols+j]
}

func (t *Tensor) Set(i, j int, v float64) {
	t.Data[i*t.Cols+j] = v
}

// Row returns a view of row i.
func (t *Tensor) Row(i int) []float64 {
	return t.Data[i*t.Cols : (i+1)*t.Cols]
}

func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		Data:    make([]float64, len(t.Data)),
		Rows:    t.Rows,
		Cols:    t.Cols,
		DType:   t.DType,
		Backend: t.Backend,
	}
	copy(c.Data, t.Data)
	return c
}
