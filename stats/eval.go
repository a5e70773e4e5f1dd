// Package stats evaluates fitted coefficients on held out data
package stats

import (
	"math"

	"github.com/aouyang1/go-fwdselect/floatsunrolled"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoObservations     = errors.New("no observations to evaluate")
	ErrTargetLenMismatch  = errors.New("target length does not match number of rows")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrNoCoefficients     = errors.New("no coefficients")
)

// EvalOptions configures Evaluate
type EvalOptions struct {
	// CorrectedTSS measures the total sum of squares from the observed targets, Σ(y - mean(y))².
	// By default it is measured from the predictions, Σ(ŷ - mean(y))².
	CorrectedTSS bool `json:"corrected_tss"`
}

// NewDefaultEvalOptions returns the default evaluation options
func NewDefaultEvalOptions() *EvalOptions {
	return &EvalOptions{}
}

// Validate returns the defaults for a nil receiver
func (o *EvalOptions) Validate() (*EvalOptions, error) {
	if o == nil {
		o = NewDefaultEvalOptions()
	}
	return o, nil
}

// Metrics are the goodness of fit statistics of a coefficient vector over a data set of N
// rows and P predictors. Degenerate inputs, such as N <= P+1 or a zero TSS, produce
// infinite or NaN values rather than errors.
type Metrics struct {
	RSS    float64 `json:"rss"`
	TSS    float64 `json:"tss"`
	Sigma2 float64 `json:"sigma2"`
	R2     float64 `json:"r_squared"`
	R2Adj  float64 `json:"adjusted_r_squared"`
	F      float64 `json:"f_statistic"`
	N      int     `json:"n"`
	P      int     `json:"p"`
}

// Finite reports whether every statistic is a finite number.
func (m *Metrics) Finite() bool {
	for _, v := range []float64{m.RSS, m.TSS, m.Sigma2, m.R2, m.R2Adj, m.F} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Predict returns coef[0] + Σ coef[j+1]*input[j]. Panics with
// floatsunrolled.ErrSliceLengthMismatch unless len(coef) == len(input)+1.
func Predict(input, coef []float64) float64 {
	if len(coef) != len(input)+1 {
		panic(floatsunrolled.ErrSliceLengthMismatch)
	}
	return coef[0] + floatsunrolled.Dot(input, coef[1:len(input)+1])
}

// PredictAll applies Predict to every row of x. A nil x is treated as an intercept only
// model over n rows.
func PredictAll(x mat.Matrix, coef []float64, n int) ([]float64, error) {
	if len(coef) == 0 {
		return nil, ErrNoCoefficients
	}
	if x == nil {
		if len(coef) != 1 {
			return nil, errors.Wrapf(ErrFeatureLenMismatch, "no features for %d coefficients", len(coef))
		}
		pred := make([]float64, n)
		floats.AddConst(coef[0], pred)
		return pred, nil
	}

	m, p := x.Dims()
	if len(coef) != p+1 {
		return nil, errors.Wrapf(ErrFeatureLenMismatch, "got %d features for %d coefficients", p, len(coef))
	}

	pred := make([]float64, m)
	row := make([]float64, p)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		pred[i] = Predict(row, coef)
	}
	return pred, nil
}

// Evaluate computes RSS, TSS, σ², R², adjusted R² and the F statistic of coef over the rows
// of x and the targets y.
//
//	RSS    = Σ (ŷ - y)²
//	TSS    = Σ (ŷ - mean(y))²          (Σ (y - mean(y))² with CorrectedTSS)
//	σ²     = RSS / (n - p - 1)
//	R²     = 1 - RSS/TSS
//	R²adj  = 1 - (1 - R²)(n - 1)/(n - q),  q = len(coef)
//	F      = ((TSS - RSS)/p) / (RSS/(n - p - 1))
func Evaluate(x mat.Matrix, y []float64, coef []float64, opt *EvalOptions) (*Metrics, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}

	n := len(y)
	if n == 0 {
		return nil, ErrNoObservations
	}
	p := 0
	if x != nil {
		var m int
		m, p = x.Dims()
		if m != n {
			return nil, errors.Wrapf(ErrTargetLenMismatch, "design matrix has %d rows and target has %d rows", m, n)
		}
	}
	q := len(coef)

	pred, err := PredictAll(x, coef, n)
	if err != nil {
		return nil, err
	}

	meanY := floats.Sum(y) / float64(n)

	rss := floatsunrolled.SumSquaredDiff(pred, y)
	tss := floatsunrolled.SumSquaredDev(pred, meanY)
	if opt.CorrectedTSS {
		tss = floatsunrolled.SumSquaredDev(y, meanY)
	}

	dof := float64(n - p - 1)
	sigma2 := rss / dof
	r2 := 1 - rss/tss
	r2Adj := 1 - (1-r2)*float64(n-1)/float64(n-q)
	f := ((tss - rss) / float64(p)) / (rss / dof)

	return &Metrics{
		RSS:    rss,
		TSS:    tss,
		Sigma2: sigma2,
		R2:     r2,
		R2Adj:  r2Adj,
		F:      f,
		N:      n,
		P:      p,
	}, nil
}
