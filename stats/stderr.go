package stats

import (
	"math"

	"github.com/aouyang1/go-fwdselect/floatsunrolled"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// SquaredStandardErrors returns σ² / Σᵢ(xᵢⱼ - mean(xⱼ))² for every predictor column j of the
// training matrix x, offset by one so the result lines up with coef. The intercept slot is 0.
// A constant column yields +Inf.
func SquaredStandardErrors(x mat.Matrix, coef []float64, sigma2 float64) []float64 {
	se2 := make([]float64, 1, len(coef))
	if x == nil {
		return se2
	}

	_, p := x.Dims()
	for j := 0; j < len(coef)-1 && j < p; j++ {
		col := mat.Col(nil, j, x)
		meanX := stat.Mean(col, nil)

		se2 = append(se2, sigma2/floatsunrolled.SumSquaredDev(col, meanX))
	}
	return se2
}

// StandardErrors returns the square roots of SquaredStandardErrors.
func StandardErrors(x mat.Matrix, coef []float64, sigma2 float64) []float64 {
	se := SquaredStandardErrors(x, coef, sigma2)
	for i, v := range se {
		se[i] = math.Sqrt(v)
	}
	return se
}
