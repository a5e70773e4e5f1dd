package selection

import (
	"math"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"
	"github.com/aouyang1/go-fwdselect/stats"

	"github.com/cockroachdb/errors"
)

// Residual outlier bounds applied to the test residuals of a full fit
const (
	outlierLowerPerc   = 0.25
	outlierUpperPerc   = 0.75
	outlierTukeyFactor = 1.5
)

// FullFitResult describes a regression on a fixed attribute list. SquaredStdErr is computed on
// the training rows with slot 0 reserved for the intercept. CoefStdErr holds the square roots of
// the diagonal of σ²(XᵀX)⁻¹. Predicted and Actual are aligned over the test rows and Outliers
// indexes into them.
type FullFitResult struct {
	Attributes    []string           `json:"attributes"`
	Coef          []float64          `json:"coef"`
	Metrics       *stats.Metrics     `json:"metrics"`
	SquaredStdErr []float64          `json:"squared_std_err"`
	CoefStdErr    []float64          `json:"coef_std_err"`
	VIF           map[string]float64 `json:"vif,omitempty"`
	Predicted     []float64          `json:"predicted"`
	Actual        []float64          `json:"actual"`
	Outliers      []int              `json:"outliers,omitempty"`
}

// FullFit splits t with seed, fits every attribute at once on the training rows and evaluates
// the fit on the test rows. Unlike a selection trial, a singular fit is returned as an error.
func FullFit(t *dataset.Table, attributes []string, target string, seed uint64, opt *Options) (*FullFitResult, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if err := validateInputs(t, attributes, target); err != nil {
		return nil, err
	}

	part, err := dataset.SplitXY(t, attributes, target, opt.TestSize, seed)
	if err != nil {
		return nil, err
	}

	xTrain := part.XTrain.Matrix()
	fit, err := linearmodel.FitWithSolver(xTrain, part.YTrain, opt.Solver)
	if err != nil {
		return nil, errors.Wrapf(err, "fitting %d attributes", len(attributes))
	}

	xTest := part.XTest.Matrix()
	metrics, err := stats.Evaluate(xTest, part.YTest, fit.Coef, opt.EvalOptions)
	if err != nil {
		return nil, err
	}
	predicted, err := stats.PredictAll(xTest, fit.Coef, len(part.YTest))
	if err != nil {
		return nil, err
	}

	cov, err := linearmodel.CoefCovariance(fit.Design, metrics.Sigma2)
	if err != nil {
		return nil, err
	}
	coefStdErr := make([]float64, len(fit.Coef))
	for i := range coefStdErr {
		coefStdErr[i] = math.Sqrt(cov.At(i, i))
	}

	var vif map[string]float64
	if len(attributes) > 1 {
		x, err := t.Select(attributes)
		if err != nil {
			return nil, err
		}
		if vif, err = stats.VarianceInflationFactor(x); err != nil {
			return nil, err
		}
	}

	residuals := stats.Residuals(predicted, part.YTest)

	return &FullFitResult{
		Attributes:    append([]string(nil), attributes...),
		Coef:          fit.Coef,
		Metrics:       metrics,
		SquaredStdErr: stats.SquaredStandardErrors(xTrain, fit.Coef, metrics.Sigma2),
		CoefStdErr:    coefStdErr,
		VIF:           vif,
		Predicted:     predicted,
		Actual:        part.YTest,
		Outliers:      stats.DetectOutliers(residuals, outlierLowerPerc, outlierUpperPerc, outlierTukeyFactor),
	}, nil
}
