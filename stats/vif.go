package stats

import (
	"math"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrMinimumFeatures = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLen      = errors.New("must have at least 2 points per feature")
)

// VarianceInflationFactor regresses every column of t on the remaining columns and returns
// 1/(1-R²) per column name. A column whose auxiliary regression is singular is perfectly
// explained by the others and gets +Inf.
func VarianceInflationFactor(t *dataset.Table) (map[string]float64, error) {
	names := t.Names()
	if len(names) < 2 {
		return nil, ErrMinimumFeatures
	}
	m := t.NumRows()
	if m < 2 {
		return nil, ErrFeatureLen
	}

	vif := make(map[string]float64, len(names))
	for i, label := range names {
		others := make([]string, 0, len(names)-1)
		others = append(others, names[:i]...)
		others = append(others, names[i+1:]...)

		x, err := t.Select(others)
		if err != nil {
			return nil, err
		}
		y, err := t.Column(label)
		if err != nil {
			return nil, err
		}

		fit, err := linearmodel.FitOLS(x.Matrix(), y)
		if errors.Is(err, linearmodel.ErrSingularMatrix) {
			vif[label] = math.Inf(1)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "unable to regress %s on remaining features", label)
		}

		var predictedVec mat.VecDense
		predictedVec.MulVec(fit.Design, mat.NewVecDense(len(fit.Coef), fit.Coef))
		predicted := mat.Col(nil, 0, &predictedVec)

		r2 := stat.RSquaredFrom(predicted, y, nil)
		vif[label] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
