package lip

import "fmt"

type Option func(*Refiner) error

// WithEpsilon specifies the degeneracy threshold on the per-axis
// feature energy B[i,i]. An axis whose energy does not exceed the
// threshold has no defined least-squares ratio and triggers the
// degeneracy policy. The threshold must be non-negative.
func WithEpsilon(eps float64) Option {
	return func(r *Refiner) error {
		if eps < 0 {
			return fmt.Errorf("epsilon must be non-negative, got %v", eps)
		}
		r.eps = eps
		return nil
	}
}

// WithZeroDegenerate drops the correction on degenerate residual axes
// instead of returning an error. A degenerate axis carries no feature
// evidence, so its re-estimated singular value is set to zero and the
// axis contributes nothing to the refined matrix.
func WithZeroDegenerate() Option {
	return func(r *Refiner) error {
		r.clamp = true
		return nil
	}
}
