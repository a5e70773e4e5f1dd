package selection

import (
	"math"
	"testing"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullFitExact(t *testing.T) {
	tbl, err := dataset.Simulate(dataset.SimulateOptions{
		Rows:      30,
		Intercept: 2,
		Coef:      []float64{3, -1},
		Target:    "weight",
		Seed:      8,
	})
	require.Nil(t, err)

	res, err := FullFit(tbl, []string{"x1", "x2"}, "weight", 4, nil)
	require.Nil(t, err)

	assert.InDeltaSlice(t, []float64{2, 3, -1}, res.Coef, 1e-9)
	assert.InDelta(t, 0.0, res.Metrics.RSS, 1e-12)
	assert.InDelta(t, 1.0, res.Metrics.R2, 1e-12)
	assert.Equal(t, 9, res.Metrics.N)
	assert.Equal(t, 2, res.Metrics.P)
	assert.Len(t, res.Predicted, 9)
	assert.InDeltaSlice(t, res.Actual, res.Predicted, 1e-9)
	assert.Equal(t, []string{"x1", "x2"}, res.Attributes)
}

func TestFullFit(t *testing.T) {
	tbl := simulatedTable(t, 120, []float64{1.5, -0.5, 2}, 1.0, 23)
	attributes := []string{"x1", "x2", "x3"}

	res, err := FullFit(tbl, attributes, "weight", 77, nil)
	require.Nil(t, err)

	require.Len(t, res.Coef, 4)
	assert.InDelta(t, 4.0, res.Coef[0], 2.0)
	assert.InDeltaSlice(t, []float64{1.5, -0.5, 2}, res.Coef[1:], 0.3)
	assert.True(t, res.Metrics.Finite())
	assert.LessOrEqual(t, res.Metrics.R2, 1.0)
	assert.Equal(t, recomputeRSS(t, tbl, attributes, 77), res.Metrics.RSS)

	require.Len(t, res.SquaredStdErr, 4)
	assert.Equal(t, 0.0, res.SquaredStdErr[0])
	for _, v := range res.SquaredStdErr[1:] {
		assert.Greater(t, v, 0.0)
	}

	require.Len(t, res.CoefStdErr, 4)
	for _, v := range res.CoefStdErr {
		assert.Greater(t, v, 0.0)
		assert.False(t, math.IsNaN(v))
	}

	require.Len(t, res.VIF, 3)
	for _, name := range attributes {
		assert.InDelta(t, 1.0, res.VIF[name], 0.5, "independent predictors")
	}

	assert.Len(t, res.Actual, 36)
	assert.Len(t, res.Predicted, 36)
	for _, idx := range res.Outliers {
		assert.Less(t, idx, len(res.Actual))
	}
}

func TestFullFitSingleAttribute(t *testing.T) {
	tbl := simulatedTable(t, 20, []float64{2}, 1.0, 5)

	res, err := FullFit(tbl, []string{"x1"}, "weight", 3, nil)
	require.Nil(t, err)
	assert.Nil(t, res.VIF)
	assert.Len(t, res.Coef, 2)
}

func TestFullFitSmallTable(t *testing.T) {
	tbl, err := dataset.New(
		[]string{"x1", "x2", "weight"},
		[][]float64{
			{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			{3, 1, 4, 1, 5, 9, 2, 6, 5, 3},
			{10, 12, 15, 13, 20, 25, 18, 24, 26, 22},
		},
	)
	require.Nil(t, err)

	res, err := FullFit(tbl, []string{"x1", "x2"}, "weight", 42, nil)
	require.Nil(t, err)
	assert.Equal(t, 3, res.Metrics.N)
	assert.GreaterOrEqual(t, res.Metrics.RSS, 0.0)
	assert.False(t, math.IsInf(res.Metrics.RSS, 0))
	assert.LessOrEqual(t, res.Metrics.R2, 1.0)
	assert.True(t, math.IsInf(res.Metrics.Sigma2, 1), "no residual degrees of freedom on 3 test rows")
}

func TestFullFitSingular(t *testing.T) {
	tbl := duplicatedTable(t)

	_, err := FullFit(tbl, []string{"a", "b"}, "weight", 1, nil)
	assert.ErrorIs(t, err, linearmodel.ErrSingularMatrix)

	_, err = FullFit(tbl, []string{"a", "weight"}, "weight", 1, nil)
	assert.ErrorIs(t, err, ErrTargetAsCandidate)
}
