// Package backend provides the vectorized numeric substrate for Monte
// Carlo integration.
//
// The package selects among registered backends by name:
//
//   - cpu: serial reference kernels
//   - parallel: worker-pool kernels with a signature-keyed plan cache
//   - graph: record-once/replay programs for ahead-of-time compilation
//
// Callers obtain a backend through Lookup or Default:
//
//	b, err := backend.Lookup("parallel")
//	sum := b.Sum(values)
//
// All backends produce identical uniform draw sequences for a given
// generator, so a seeded stream reproduces the same sample points on
// every backend.
package backend
