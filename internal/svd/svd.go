package svd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Decompose computes the thin singular value decomposition of w,
// w ≈ U · diag(s) · Vᵀ, with U of size q×m, V of size l×m and s of
// length m = min(q, l), sorted in descending order.
//
// No truncation happens here; the factorization is exact up to
// floating-point rounding. Non-finite entries in w are not checked
// and yield an undefined factorization.
func Decompose(w mat.Matrix) (u, v *mat.Dense, s []float64, err error) {
	var f mat.SVD
	if ok := f.Factorize(w, mat.SVDThin); !ok {
		return nil, nil, nil, fmt.Errorf("cannot factorize")
	}
	u, v = new(mat.Dense), new(mat.Dense)
	f.UTo(u)
	f.VTo(v)
	s = f.Values(nil)
	return u, v, s, nil
}
