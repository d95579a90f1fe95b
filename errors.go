package mcquad

import "errors"

var (
	// ErrInvalidDim rejects dimensions below 1.
	ErrInvalidDim = errors.New("mcquad: dim must be 1 or larger")

	// ErrInvalidSampleCount rejects non-positive sample counts.
	ErrInvalidSampleCount = errors.New("mcquad: N must be a positive integer")

	// ErrDomainDim rejects domains whose length differs from dim.
	ErrDomainDim = errors.New("mcquad: integration domain length must match dim")

	// ErrInvalidBounds rejects bound pairs that are not (lower, upper)
	// with lower <= upper.
	ErrInvalidBounds = errors.New("mcquad: invalid integration bounds")

	// ErrSeedConflict rejects calls supplying both a seed and an
	// explicit generator.
	ErrSeedConflict = errors.New("mcquad: seed and rng cannot both be passed")

	// ErrUnsupportedBackend rejects compilation requests for backends
	// without a compilation model.
	ErrUnsupportedBackend = errors.New("mcquad: compilation not implemented for backend")
)
