package funcs

import (
	"math"
	"testing"

	"github.com/san-kum/mcquad"
)

func TestUnknownIntegrand(t *testing.T) {
	if _, err := Get("nope"); err == nil {
		t.Error("expected an error for an unknown integrand")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("expected registered integrands")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}

func TestExactValues(t *testing.T) {
	tests := []struct {
		fn   string
		dim  int
		want float64
	}{
		{"const", 3, 1},
		{"linsum", 4, 2},
		{"prodcos", 2, 1},
		{"ball", 2, math.Pi},
		{"ball", 3, 4 * math.Pi / 3},
	}
	for _, tt := range tests {
		spec, err := Get(tt.fn)
		if err != nil {
			t.Fatalf("get %s: %v", tt.fn, err)
		}
		if got := spec.Exact(tt.dim); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s dim %d: exact %v, want %v", tt.fn, tt.dim, got, tt.want)
		}
	}
}

func TestEstimatesApproachExact(t *testing.T) {
	for _, name := range []string{"linsum", "gauss", "ball"} {
		spec, err := Get(name)
		if err != nil {
			t.Fatalf("get %s: %v", name, err)
		}
		const dim = 2
		got, err := mcquad.Integrate(spec.Fn, dim,
			mcquad.WithN(200000),
			mcquad.WithDomain(spec.Domain(dim)),
			mcquad.WithSeed(17),
		)
		if err != nil {
			t.Fatalf("integrate %s: %v", name, err)
		}
		want := spec.Exact(dim)
		if math.Abs(got-want) > 0.05*math.Max(1, math.Abs(want)) {
			t.Errorf("%s: estimate %v too far from exact %v", name, got, want)
		}
	}
}
