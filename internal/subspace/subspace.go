package subspace

import "gonum.org/v1/gonum/mat"

// Split holds the partition of an SVD into the preserved leading-k
// components and the residual trailing components.
type Split struct {
	// Wk is the rank-k reconstruction U_k · diag(s_k) · V_kᵀ, q×l.
	// It is the zero matrix when k == 0 and equals the full
	// reconstruction when k == len(s).
	Wk *mat.Dense
	// Ul and Vl are the residual basis columns of U and V beyond k,
	// of size q×r and l×r with r = len(s)−k. Both are nil when r == 0.
	Ul, Vl *mat.Dense
}

// Partition slices the factorization (u, v, s) at rank k.
// The returned Wk is freshly allocated; Ul and Vl share backing
// storage with u and v and must not be mutated.
func Partition(u, v *mat.Dense, s []float64, k int) Split {
	q, _ := u.Dims()
	l, _ := v.Dims()
	m := len(s)

	var sp Split
	if k == 0 {
		sp.Wk = mat.NewDense(q, l, nil)
	} else {
		uk := u.Slice(0, q, 0, k)
		vk := v.Slice(0, l, 0, k)
		sk := mat.NewDiagDense(k, s[:k])
		sp.Wk = new(mat.Dense)
		sp.Wk.Product(uk, sk, vk.T())
	}
	if k < m {
		sp.Ul = u.Slice(0, q, k, m).(*mat.Dense)
		sp.Vl = v.Slice(0, l, k, m).(*mat.Dense)
	}
	return sp
}
