package lap

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sigmas re-estimates the singular values of the residual subspace
// spanned by (ul, vl) from feature/label evidence.
//
// It forms residual = y − x·wk, the label signal unexplained by the
// preserved component, then projects it into the residual subspace:
//
//	A = Ulᵀ · Xᵀ · residual · Vl
//	B = Ulᵀ · Xᵀ · X · Ul
//
// and solves sigma[i] = A[i,i] / B[i,i] independently per axis.
// Off-diagonal entries of A and B are discarded; the correction is
// assumed diagonal in this basis.
//
// An axis whose feature energy B[i,i] does not exceed eps has no
// defined ratio. With clamp set its sigma is forced to zero,
// otherwise an error naming the axis is returned.
func Sigmas(x, y, wk mat.Matrix, ul, vl *mat.Dense, eps float64, clamp bool) ([]float64, error) {
	var xw, residual mat.Dense
	xw.Mul(x, wk)
	residual.Sub(y, &xw)

	var a, b mat.Dense
	a.Product(ul.T(), x.T(), &residual, vl)
	b.Product(ul.T(), x.T(), x, ul)

	_, r := ul.Dims()
	sigmas := make([]float64, r)
	for i := 0; i < r; i++ {
		bi := b.At(i, i)
		if math.Abs(bi) <= eps {
			if clamp {
				continue
			}
			return nil, fmt.Errorf("residual axis %d has feature energy %.3e (threshold %.3e)", i, bi, eps)
		}
		sigmas[i] = a.At(i, i) / bi
	}
	return sigmas, nil
}
