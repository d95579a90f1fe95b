package mcquad

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/mcquad/internal/backend"
)

func constIntegrand(c float64) Integrand {
	return func(pts *backend.Tensor) *backend.Tensor {
		vals := backend.NewTensor(pts.Rows, 1, pts.DType, pts.Backend)
		for i := range vals.Data {
			vals.Data[i] = c
		}
		return vals
	}
}

func firstCoord(pts *backend.Tensor) *backend.Tensor {
	vals := backend.NewTensor(pts.Rows, 1, pts.DType, pts.Backend)
	for i := 0; i < pts.Rows; i++ {
		vals.Data[i] = pts.At(i, 0)
	}
	return vals
}

func TestConstantOneDim(t *testing.T) {
	got, err := Integrate(constIntegrand(1), 1,
		WithN(10),
		WithDomain([][]float64{{0, 1}}),
	)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if got != 1.0 {
		t.Errorf("expected 1.0, got %v", got)
	}
}

func TestConstantTwoDim(t *testing.T) {
	got, err := Integrate(constIntegrand(2), 2,
		WithN(50),
		WithDomain([][]float64{{0, 2}, {0, 3}}),
	)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if got != 12.0 {
		t.Errorf("expected 12.0 (volume 6 x constant 2), got %v", got)
	}
}

func TestMeanOfUniform(t *testing.T) {
	const n = 200000
	got, err := Integrate(firstCoord, 1,
		WithN(n),
		WithDomain([][]float64{{0, 1}}),
		WithSeed(0),
	)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	// Standard error of the mean of U(0,1) is ~0.29/sqrt(N).
	tol := 5.0 / math.Sqrt(n)
	if math.Abs(got-0.5) > tol {
		t.Errorf("expected ~0.5 within %v, got %v", tol, got)
	}
}

func TestSeededDeterminism(t *testing.T) {
	for _, name := range []string{"cpu", "parallel", "graph"} {
		t.Run(name, func(t *testing.T) {
			opts := []CallOption{
				WithN(5000),
				WithDomain([][]float64{{0, 1}, {-2, 2}}),
				WithSeed(42),
				WithBackend(name),
			}
			fn := func(pts *backend.Tensor) *backend.Tensor {
				vals := backend.NewTensor(pts.Rows, 1, pts.DType, pts.Backend)
				for i := 0; i < pts.Rows; i++ {
					vals.Data[i] = pts.At(i, 0) * pts.At(i, 1)
				}
				return vals
			}
			r1, err := New().Integrate(fn, 2, opts...)
			if err != nil {
				t.Fatalf("first integrate failed: %v", err)
			}
			r2, err := New().Integrate(fn, 2, opts...)
			if err != nil {
				t.Fatalf("second integrate failed: %v", err)
			}
			if r1 != r2 {
				t.Errorf("seeded results differ: %v vs %v", r1, r2)
			}
		})
	}
}

func TestEvaluationAccounting(t *testing.T) {
	m := New()
	if _, err := m.Integrate(constIntegrand(1), 1, WithN(123)); err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if got := m.Evals(); got != 123 {
		t.Errorf("expected 123 evaluations, got %d", got)
	}
	if _, err := m.Integrate(constIntegrand(1), 1, WithN(123)); err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if got := m.Evals(); got != 246 {
		t.Errorf("expected cumulative 246 evaluations, got %d", got)
	}
}

func TestCallerOwnedRNGContinues(t *testing.T) {
	opts := func(r *backend.RNG) []CallOption {
		return []CallOption{WithN(1000), WithDomain([][]float64{{0, 1}}), WithRNG(r)}
	}

	shared := backend.NewSeededRNG(7)
	r1, err := Integrate(firstCoord, 1, opts(shared)...)
	if err != nil {
		t.Fatalf("first integrate failed: %v", err)
	}
	r2, err := Integrate(firstCoord, 1, opts(shared)...)
	if err != nil {
		t.Fatalf("second integrate failed: %v", err)
	}
	if r1 == r2 {
		t.Errorf("shared generator did not advance between calls: %v", r1)
	}

	fresh := backend.NewSeededRNG(7)
	again, err := Integrate(firstCoord, 1, opts(fresh)...)
	if err != nil {
		t.Fatalf("replay integrate failed: %v", err)
	}
	if again != r1 {
		t.Errorf("fresh generator did not reproduce first call: %v vs %v", again, r1)
	}
}

func TestFloat32Stability(t *testing.T) {
	got, err := Integrate(firstCoord, 1,
		WithN(1000),
		WithDomain([][]float64{{0, 1}}),
		WithSeed(3),
		WithDType(backend.Float32),
	)
	if err != nil {
		t.Fatalf("integrate failed: %v", err)
	}
	if got != float64(float32(got)) {
		t.Errorf("result not representable in float32: %v", got)
	}
}

func TestValueShapeMismatch(t *testing.T) {
	bad := func(pts *backend.Tensor) *backend.Tensor {
		return backend.NewTensor(pts.Rows+1, 1, pts.DType, pts.Backend)
	}
	if _, err := Integrate(bad, 1, WithN(10)); err == nil {
		t.Error("expected an error for a mis-shaped integrand result")
	}
}

func TestInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		dim     int
		opts    []CallOption
		wantErr error
	}{
		{"zero dim", 0, nil, ErrInvalidDim},
		{"negative dim", -1, nil, ErrInvalidDim},
		{"zero N", 1, []CallOption{WithN(0)}, ErrInvalidSampleCount},
		{"negative N", 1, []CallOption{WithN(-5)}, ErrInvalidSampleCount},
		{"reversed bounds", 1, []CallOption{WithDomain([][]float64{{2, 1}})}, ErrInvalidBounds},
		{"triple bounds", 1, []CallOption{WithDomain([][]float64{{0, 1, 2}})}, ErrInvalidBounds},
		{"domain length mismatch", 2, []CallOption{WithDomain([][]float64{{0, 1}, {0, 1}, {0, 1}})}, ErrDomainDim},
		{"seed and rng", 1, []CallOption{WithSeed(1), WithRNG(backend.NewSeededRNG(1))}, ErrSeedConflict},
		{"unknown backend", 1, []CallOption{WithBackend("tpu")}, backend.ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Integrate(constIntegrand(1), tt.dim, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNoEvaluationsAfterValidationError(t *testing.T) {
	m := New()
	if _, err := m.Integrate(constIntegrand(1), 0); err == nil {
		t.Fatal("expected a validation error")
	}
	if got := m.Evals(); got != 0 {
		t.Errorf("validation failure must not evaluate, counter is %d", got)
	}
}

func TestDomainTensorOverridesBackendHint(t *testing.T) {
	dom := backend.NewTensor(1, 2, backend.Float64, "cpu")
	dom.Set(0, 0, 0)
	dom.Set(0, 1, 1)
	// The tensor's tag wins over the hint; cpu has no compilation
	// model, so the request must fail even though parallel was asked.
	_, err := New().JITIntegrate(1, WithDomainTensor(dom), WithBackend("parallel"))
	if !errors.Is(err, ErrUnsupportedBackend) {
		t.Errorf("expected ErrUnsupportedBackend from inferred cpu backend, got %v", err)
	}
}
