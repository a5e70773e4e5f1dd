package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSquaredStandardErrors(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
	})
	se2 := SquaredStandardErrors(x, []float64{0.5, 1, 2}, 4)
	require.Len(t, se2, 3)
	assert.Equal(t, 0.0, se2[0], "intercept placeholder")
	assert.InDelta(t, 2.0, se2[1], 1e-12)
	assert.True(t, math.IsInf(se2[2], 1), "constant column")

	se := StandardErrors(x, []float64{0.5, 1, 2}, 4)
	assert.InDelta(t, math.Sqrt2, se[1], 1e-12)

	assert.Equal(t, []float64{0}, SquaredStandardErrors(nil, []float64{1}, 4))
}
