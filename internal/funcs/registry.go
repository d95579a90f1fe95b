// Package funcs is a registry of named batched integrands with known
// reference values, used by the CLI for error reporting and
// convergence studies.
package funcs

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/mcquad"
	"github.com/san-kum/mcquad/internal/backend"
)

// Spec describes one named integrand: the batched function itself, its
// default integration box, and the exact integral over that box when a
// closed form exists.
type Spec struct {
	Name        string
	Description string
	Fn          mcquad.Integrand
	Domain      func(dim int) [][]float64
	// Exact returns the integral over the default box, or NaN when no
	// closed form is known.
	Exact func(dim int) float64
}

var registry = map[string]Spec{
	"const": {
		Name:        "const",
		Description: "constant 1; integrates to the domain volume",
		Fn:          pointwise(func(x []float64) float64 { return 1 }),
		Domain:      box(0, 1),
		Exact:       func(dim int) float64 { return 1 },
	},
	"linsum": {
		Name:        "linsum",
		Description: "sum of coordinates on the unit box",
		Fn: pointwise(func(x []float64) float64 {
			s := 0.0
			for _, v := range x {
				s += v
			}
			return s
		}),
		Domain: box(0, 1),
		Exact:  func(dim int) float64 { return float64(dim) / 2 },
	},
	"prodcos": {
		Name:        "prodcos",
		Description: "product of cosines on [0, pi/2]^dim",
		Fn: pointwise(func(x []float64) float64 {
			p := 1.0
			for _, v := range x {
				p *= math.Cos(v)
			}
			return p
		}),
		Domain: box(0, math.Pi/2),
		Exact:  func(dim int) float64 { return 1 },
	},
	"gauss": {
		Name:        "gauss",
		Description: "exp(-|x|^2) on [-1, 1]^dim",
		Fn: pointwise(func(x []float64) float64 {
			r2 := 0.0
			for _, v := range x {
				r2 += v * v
			}
			return math.Exp(-r2)
		}),
		Domain: box(-1, 1),
		Exact: func(dim int) float64 {
			return math.Pow(math.SqrtPi*math.Erf(1), float64(dim))
		},
	},
	"ball": {
		Name:        "ball",
		Description: "unit-ball indicator on [-1, 1]^dim",
		Fn: pointwise(func(x []float64) float64 {
			r2 := 0.0
			for _, v := range x {
				r2 += v * v
			}
			if r2 <= 1 {
				return 1
			}
			return 0
		}),
		Domain: box(-1, 1),
		Exact: func(dim int) float64 {
			d := float64(dim)
			return math.Pow(math.Pi, d/2) / math.Gamma(d/2+1)
		},
	},
}

// Get resolves an integrand by name.
func Get(name string) (Spec, error) {
	spec, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown integrand: %s", name)
	}
	return spec, nil
}

// Names lists the registered integrands in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pointwise lifts a per-point function into a batched integrand. The
// batch contract stays intact: the integrand is still called once per
// integration.
func pointwise(f func(x []float64) float64) mcquad.Integrand {
	return func(pts *backend.Tensor) *backend.Tensor {
		vals := backend.NewTensor(pts.Rows, 1, pts.DType, pts.Backend)
		for i := 0; i < pts.Rows; i++ {
			vals.Data[i] = pts.DType.Round(f(pts.Row(i)))
		}
		return vals
	}
}

func box(lo, hi float64) func(dim int) [][]float64 {
	return func(dim int) [][]float64 {
		dom := make([][]float64, dim)
		for d := range dom {
			dom[d] = []float64{lo, hi}
		}
		return dom
	}
}
