// Package lip refines a weight matrix that was fit under label noise.
//
// The refinement is a two-stage spectral correction. Principal Subspace
// Preservation (PSP) keeps the leading k singular components of the noisy
// matrix unchanged, and Label Ambiguity Purification (LAP) re-estimates
// the singular values of the remaining components by a per-axis
// least-squares fit against the observed features and labels.
package lip

import (
	"errors"
	"fmt"

	"github.com/yyyoichi/lip_refine/internal/lap"
	"github.com/yyyoichi/lip_refine/internal/subspace"
	"github.com/yyyoichi/lip_refine/internal/svd"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrShape         = errors.New("matrix dimensions are inconsistent")
	ErrRank          = errors.New("retained rank k is out of range")
	ErrDegenerate    = errors.New("no feature energy along a residual axis")
	ErrFactorization = errors.New("singular value decomposition failed")
)

// Refine applies the refinement to a noisy weight matrix with the
// specified options. This is a convenience function that creates a
// Refiner instance and calls its Refine method.
func Refine(wNoisy, x, y *mat.Dense, k int, opts ...Option) (*mat.Dense, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return r.Refine(wNoisy, x, y, k)
}

type Refiner struct {
	eps   float64
	clamp bool
}

// New initializes a refinement structure. The degeneracy threshold and
// policy can be optionally specified. For default values, refer to the
// init function.
func New(opts ...Option) (*Refiner, error) {
	r := new(Refiner)
	if err := r.init(opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// Refine computes the refined weight matrix from wNoisy (q×l), the
// feature matrix x (n×q) and the label matrix y (n×l), preserving the
// leading k singular components.
//
// Process:
//  1. Factorizes wNoisy by thin SVD.
//  2. Reconstructs the rank-k component unchanged (PSP).
//  3. Projects the label residual into the trailing subspace and
//     re-estimates one singular value per residual axis (LAP).
//  4. Sums both components into the q×l result.
//
// When k equals min(q, l) there is no residual subspace and the result
// equals wNoisy up to floating-point rounding. Inputs containing NaN or
// Inf violate the preconditions and yield an undefined result.
func (r *Refiner) Refine(wNoisy, x, y *mat.Dense, k int) (*mat.Dense, error) {
	q, l := wNoisy.Dims()
	if err := validate(q, l, x, y, k); err != nil {
		return nil, err
	}
	u, v, s, err := svd.Decompose(wNoisy)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrFactorization, err)
	}
	return r.refine(x, y, u, v, s, k)
}

func (r *Refiner) refine(x, y, u, v *mat.Dense, s []float64, k int) (*mat.Dense, error) {
	sp := subspace.Partition(u, v, s, k)
	if sp.Ul == nil {
		// k == min(q, l): nothing remains beyond the preserved subspace.
		return sp.Wk, nil
	}
	sigmas, err := lap.Sigmas(x, y, sp.Wk, sp.Ul, sp.Vl, r.eps, r.clamp)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrDegenerate, err)
	}
	var correction, refined mat.Dense
	correction.Product(sp.Ul, mat.NewDiagDense(len(sigmas), sigmas), sp.Vl.T())
	refined.Add(sp.Wk, &correction)
	return &refined, nil
}

func (r *Refiner) init(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return err
		}
	}
	if r.eps == 0 {
		r.eps = 1e-12
	}
	return nil
}

func validate(q, l int, x, y *mat.Dense, k int) error {
	n, xc := x.Dims()
	yr, yc := y.Dims()
	if xc != q {
		return fmt.Errorf("%w: X has %d columns, weight matrix has %d rows", ErrShape, xc, q)
	}
	if yr != n {
		return fmt.Errorf("%w: Y has %d rows, X has %d", ErrShape, yr, n)
	}
	if yc != l {
		return fmt.Errorf("%w: Y has %d columns, weight matrix has %d", ErrShape, yc, l)
	}
	if m := min(q, l); k < 0 || k > m {
		return fmt.Errorf("%w: k=%d, want 0 <= k <= %d", ErrRank, k, m)
	}
	return nil
}

// Batch enables efficient repeated refinement of a single weight matrix
// (e.g. sweeping the retained rank k) by caching its decomposition.
type Batch struct {
	q, l int
	u, v *mat.Dense
	s    []float64
}

// NewBatch creates a new Batch instance and pre-computes the singular
// value decomposition of wNoisy.
func NewBatch(wNoisy *mat.Dense) (*Batch, error) {
	u, v, s, err := svd.Decompose(wNoisy)
	if err != nil {
		return nil, fmt.Errorf("%w:%w", ErrFactorization, err)
	}
	q, l := wNoisy.Dims()
	return &Batch{q: q, l: l, u: u, v: v, s: s}, nil
}

// Refine refines the cached weight matrix against (x, y) with the
// specified options, reusing the pre-computed decomposition.
func (b *Batch) Refine(x, y *mat.Dense, k int, opts ...Option) (*mat.Dense, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := validate(b.q, b.l, x, y, k); err != nil {
		return nil, err
	}
	return r.refine(x, y, b.u, b.v, b.s, k)
}
