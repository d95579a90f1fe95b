// Package mcquad estimates definite integrals of vector-valued
// functions over axis-aligned boxes by Monte Carlo sampling, executed
// on a numeric backend chosen per call.
//
// The pipeline has three stages: sample generation, one batched
// integrand evaluation, and result reduction. Integrate runs them
// directly; JITIntegrate returns an entry point with stages one and
// three specialized ahead of time by the backend's compilation model,
// while the integrand stage stays dynamic.
//
//	est, err := mcquad.Integrate(fn, 2,
//		mcquad.WithN(100000),
//		mcquad.WithDomain([][]float64{{0, 2}, {0, 3}}),
//		mcquad.WithSeed(42),
//	)
//
// For a fixed seed, dimension, sample count, domain and integrand, two
// calls return bit-identical results on the same backend.
package mcquad
