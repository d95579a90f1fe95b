package mcquad

import (
	"fmt"

	"github.com/san-kum/mcquad/internal/backend"
)

// checkInputs validates everything that can be rejected before any
// sampling or compilation happens. All failures here are terminal and
// leave no state behind.
func checkInputs(dim int, cfg callConfig) error {
	if dim < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidDim, dim)
	}
	if cfg.n < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidSampleCount, cfg.n)
	}
	if cfg.seed != nil && cfg.rng != nil {
		return ErrSeedConflict
	}
	if cfg.domain != nil {
		if len(cfg.domain) != dim {
			return fmt.Errorf("%w: dim %d, domain length %d", ErrDomainDim, dim, len(cfg.domain))
		}
		for d, pair := range cfg.domain {
			if len(pair) != 2 {
				return fmt.Errorf("%w: dimension %d has %d bounds", ErrInvalidBounds, d, len(pair))
			}
			if pair[0] > pair[1] {
				return fmt.Errorf("%w: dimension %d has lower %v > upper %v", ErrInvalidBounds, d, pair[0], pair[1])
			}
		}
	}
	if cfg.domainT != nil {
		if cfg.domainT.Rows != dim {
			return fmt.Errorf("%w: dim %d, domain rows %d", ErrDomainDim, dim, cfg.domainT.Rows)
		}
		if cfg.domainT.Cols != 2 {
			return fmt.Errorf("%w: domain tensor has %d columns", ErrInvalidBounds, cfg.domainT.Cols)
		}
		for d := 0; d < dim; d++ {
			if cfg.domainT.At(d, 0) > cfg.domainT.At(d, 1) {
				return fmt.Errorf("%w: dimension %d has lower %v > upper %v",
					ErrInvalidBounds, d, cfg.domainT.At(d, 0), cfg.domainT.At(d, 1))
			}
		}
	}
	return nil
}

// normalizeDomain turns the call's domain specification into a
// canonical dim×2 bounds tensor and resolves the numeric backend: the
// tag of a supplied domain tensor wins, then the backend hint, then the
// registry default. With no domain given the box is [-1, 1] in every
// dimension.
func normalizeDomain(dim int, cfg callConfig) (*backend.Tensor, backend.Backend, error) {
	name := cfg.backendName
	if cfg.domainT != nil && cfg.domainT.Backend != "" {
		name = cfg.domainT.Backend
	}
	var b backend.Backend
	if name == "" {
		b = backend.Default()
	} else {
		var err error
		b, err = backend.Lookup(name)
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.domainT != nil {
		return cfg.domainT, b, nil
	}

	dom := backend.NewTensor(dim, 2, cfg.dtype, b.Name())
	for d := 0; d < dim; d++ {
		if cfg.domain == nil {
			dom.Set(d, 0, -1)
			dom.Set(d, 1, 1)
			continue
		}
		dom.Set(d, 0, cfg.dtype.Round(cfg.domain[d][0]))
		dom.Set(d, 1, cfg.dtype.Round(cfg.domain[d][1]))
	}
	return dom, b, nil
}
