package stats

import (
	"math"
	"testing"

	"github.com/aouyang1/go-fwdselect/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarianceInflationFactor(t *testing.T) {
	testData := map[string]struct {
		names []string
		cols  [][]float64
		err   error
	}{
		"single feature": {
			names: []string{"x1"},
			cols:  [][]float64{{1, 2}},
			err:   ErrMinimumFeatures,
		},
		"single row": {
			names: []string{"x1", "x2"},
			cols:  [][]float64{{1}, {2}},
			err:   ErrFeatureLen,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			tbl, err := dataset.New(td.names, td.cols)
			require.Nil(t, err)
			_, err = VarianceInflationFactor(tbl)
			assert.ErrorIs(t, err, td.err)
		})
	}
}

func TestVarianceInflationFactorOrthogonal(t *testing.T) {
	tbl, err := dataset.New(
		[]string{"x1", "x2"},
		[][]float64{
			{1, -1, 1, -1},
			{1, 1, -1, -1},
		},
	)
	require.Nil(t, err)

	vif, err := VarianceInflationFactor(tbl)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, vif["x1"], 1e-9)
	assert.InDelta(t, 1.0, vif["x2"], 1e-9)
}

func TestVarianceInflationFactorCollinear(t *testing.T) {
	tbl, err := dataset.New(
		[]string{"x1", "x2", "x3"},
		[][]float64{
			{1, 2, 3, 4, 5},
			{1, 2, 3, 4, 5},
			{4, 1, 3, 2, 6},
		},
	)
	require.Nil(t, err)

	vif, err := VarianceInflationFactor(tbl)
	require.Nil(t, err)
	require.Len(t, vif, 3)
	assert.True(t, math.IsInf(vif["x3"], 1), "x3 regressed on two identical columns is singular")
}
