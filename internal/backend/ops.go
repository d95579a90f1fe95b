package backend

import "fmt"

// FillSamples draws out.Rows uniform points per dimension into out,
// scaled to the bounds in dom. Dimensions are drawn in ascending order
// 0..dim-1; together with the in-order Uniform contract this makes a
// seeded stream reproduce the same points on every call. scratch must
// hold at least out.Rows values.
func FillSamples(b Backend, out, dom *Tensor, rng *RNG, scratch []float64) {
	n := out.Rows
	col := scratch[:n]
	for d := 0; d < dom.Rows; d++ {
		b.Uniform(col, rng)
		lo := dom.At(d, 0)
		hi := dom.At(d, 1)
		b.Affine(col, hi-lo, lo, out.DType)
		for i := 0; i < n; i++ {
			out.Data[i*out.Cols+d] = col[i]
		}
	}
}

// ReduceValues computes volume(dom) * sum(values) / len(values). The
// quotient is accumulated in float64; when the values carry Float32 the
// result is narrowed back to float32 precision so repeated and compiled
// calls keep a stable representation.
func ReduceValues(b Backend, values, dom *Tensor) (float64, error) {
	if values == nil || values.Cols != 1 || values.Rows == 0 {
		return 0, fmt.Errorf("integrand values must form a non-empty column, got %v", shapeOf(values))
	}
	spans := make([]float64, dom.Rows)
	for d := range spans {
		spans[d] = dom.At(d, 1) - dom.At(d, 0)
	}
	volume := b.Prod(spans)
	integral := volume * b.Sum(values.Data) / float64(values.Rows)
	return values.DType.Round(integral), nil
}

func shapeOf(t *Tensor) [2]int {
	if t == nil {
		return [2]int{0, 0}
	}
	return [2]int{t.Rows, t.Cols}
}
