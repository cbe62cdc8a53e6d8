package lap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/lip_refine/internal/lap"
	"gonum.org/v1/gonum/mat"
)

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func TestSigmas_AnalyticRecovery(t *testing.T) {
	// With X = I, Wk = 0 and identity residual bases, A equals Y and
	// B is the identity, so the sigmas are exactly Y's diagonal.
	x := eye(3)
	wk := mat.NewDense(3, 3, nil)
	y := mat.NewDense(3, 3, []float64{
		5, 0, 0,
		0, 4, 0,
		0, 0, 3,
	})

	sigmas, err := lap.Sigmas(x, y, wk, eye(3), eye(3), 1e-12, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 4, 3}, sigmas, 1e-12)
}

func TestSigmas_OffDiagonalDiscarded(t *testing.T) {
	// Cross-axis coupling in the residual must not leak into the
	// per-axis estimates; only the diagonals of A and B are read.
	x := eye(2)
	wk := mat.NewDense(2, 2, nil)
	y := mat.NewDense(2, 2, []float64{
		7, 100,
		-100, 2,
	})

	sigmas, err := lap.Sigmas(x, y, wk, eye(2), eye(2), 1e-12, false)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{7, 2}, sigmas, 1e-12)
}

func TestSigmas_NoiseFreeLabels(t *testing.T) {
	// When Y = X·Wk exactly the residual vanishes and every sigma is
	// near zero.
	x := mat.NewDense(4, 3, []float64{
		1, 0, 1,
		0, 1, 2,
		2, 1, 0,
		1, -1, 1,
	})
	wk := mat.NewDense(3, 2, []float64{
		1, -1,
		2, -2,
		3, -3,
	})
	y := mat.NewDense(4, 2, nil)
	y.Mul(x, wk)

	ul := mat.NewDense(3, 1, []float64{1, 0, 0})
	vl := mat.NewDense(2, 1, []float64{0, 1})

	sigmas, err := lap.Sigmas(x, y, wk, ul, vl, 1e-12, false)
	require.NoError(t, err)
	require.Len(t, sigmas, 1)
	assert.InDelta(t, 0, sigmas[0], 1e-10)
}

func TestSigmas_DegenerateAxis(t *testing.T) {
	// X has no energy along the second coordinate axis, so the basis
	// vector e2 sees zero feature energy.
	x := mat.NewDense(3, 2, []float64{
		1, 0,
		2, 0,
		-1, 0,
	})
	wk := mat.NewDense(2, 2, nil)
	y := mat.NewDense(3, 2, nil)
	ul := mat.NewDense(2, 1, []float64{0, 1})
	vl := mat.NewDense(2, 1, []float64{0, 1})

	t.Run("reports the axis", func(t *testing.T) {
		_, err := lap.Sigmas(x, y, wk, ul, vl, 1e-12, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "axis 0")
	})

	t.Run("clamps to zero", func(t *testing.T) {
		sigmas, err := lap.Sigmas(x, y, wk, ul, vl, 1e-12, true)
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, sigmas)
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		// Raising the threshold above the energy of a well-behaved
		// axis turns it degenerate too.
		healthy := mat.NewDense(2, 1, []float64{1, 0})
		_, err := lap.Sigmas(x, y, wk, healthy, vl, 1e12, false)
		assert.Error(t, err)
	})
}
