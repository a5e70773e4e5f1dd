package linearmodel

import (
	"math/rand/v2"
	"testing"

	mat_ "github.com/aouyang1/go-fwdselect/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model *OLSRegression, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol, "intercept")

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol, "coefficients")

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol, "score")
}

// generateBenchData builds nObs rows of nFeat uniform predictors and a noiseless linear target.
func generateBenchData(nObs, nFeat int) (mat.Matrix, mat.Matrix, error) {
	r := rand.New(rand.NewPCG(1, 2))

	data := make([][]float64, nObs)
	target := make([]float64, nObs)
	for i := range nObs {
		obs := make([]float64, nFeat)
		target[i] = 1.5
		for j := range nFeat {
			obs[j] = r.Float64()
			target[i] += float64(j+1) * obs[j]
		}
		data[i] = obs
	}

	x, err := mat_.NewDenseFromArray(data)
	if err != nil {
		return nil, nil, err
	}
	return x, mat_.ColVec(target), nil
}
