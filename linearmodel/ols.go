package linearmodel

import (
	"math"
	"strings"

	mat_ "github.com/aouyang1/go-fwdselect/mat"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Solver selects how the least squares problem is solved
type Solver int

const (
	// SolverNormal inverts XᵀX explicitly
	SolverNormal Solver = iota
	// SolverQR back substitutes through a QR factorization of X
	SolverQR
)

func (s Solver) String() string {
	switch s {
	case SolverNormal:
		return "normal"
	case SolverQR:
		return "qr"
	default:
		return "unknown"
	}
}

// ParseSolver maps "normal" and "qr" to their Solver.
func ParseSolver(name string) (Solver, error) {
	switch strings.ToLower(name) {
	case "", SolverNormal.String():
		return SolverNormal, nil
	case SolverQR.String():
		return SolverQR, nil
	default:
		return 0, errors.Wrapf(ErrUnknownSolver, "%q", name)
	}
}

// rankTol is the relative size below which a diagonal entry of R is treated as zero
const rankTol = 1e-12

// OLSOptions represents input options to run the OLS Regression
type OLSOptions struct {
	// FitIntercept adds a constant 1.0 feature as the first column if set to true
	FitIntercept bool
	Solver       Solver
}

// Validate runs basic validation on OLS options
func (o *OLSOptions) Validate() (*OLSOptions, error) {
	if o == nil {
		o = NewDefaultOLSOptions()
	}

	switch o.Solver {
	case SolverNormal, SolverQR:
	default:
		return nil, errors.Wrapf(ErrUnknownSolver, "%d", int(o.Solver))
	}
	return o, nil
}

// NewDefaultOLSOptions returns a default set of OLS Regression options
func NewDefaultOLSOptions() *OLSOptions {
	return &OLSOptions{
		FitIntercept: true,
		Solver:       SolverNormal,
	}
}

// OLSRegression computes ordinary least squares
type OLSRegression struct {
	opt       *OLSOptions
	coef      []float64
	intercept float64
	fit       *Fit
}

// NewOLSRegression initializes an ordinary least squares model ready for fitting
func NewOLSRegression(opt *OLSOptions) (*OLSRegression, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	return &OLSRegression{
		opt: opt,
	}, nil
}

// Fit the model according to the given training data. y must be a single column.
func (o *OLSRegression) Fit(x, y mat.Matrix) error {
	if o.opt == nil {
		return ErrNoOptions
	}
	if x == nil {
		return ErrNoTrainingMatrix
	}
	if y == nil {
		return ErrNoTargetMatrix
	}
	m, _ := x.Dims()

	ym, _ := y.Dims()
	if ym != m {
		return errors.Wrapf(ErrTargetLenMismatch, "training data has %d rows and target has %d rows", m, ym)
	}

	withOnes, err := mat_.WithIntercept(x, m)
	if err != nil {
		return err
	}
	design := withOnes
	if !o.opt.FitIntercept {
		design = mat.DenseCopyOf(x)
	}
	ySlice := mat.Col(nil, 0, y)

	var c []float64
	switch o.opt.Solver {
	case SolverQR:
		c, err = solveQR(design, ySlice)
	default:
		c, err = solveNormal(design, ySlice)
	}
	if err != nil {
		o.fit = nil
		return err
	}

	if o.opt.FitIntercept {
		o.intercept = c[0]
		o.coef = c[1:]
	} else {
		o.intercept = 0
		o.coef = c
	}
	// intercept form, the intercept slot is zero without FitIntercept
	o.fit = &Fit{
		Coef:   append([]float64{o.intercept}, o.coef...),
		Design: withOnes,
	}
	return nil
}

// solveQR factorizes X = QR and back substitutes R c = Qᵀy. A zero on the diagonal of R
// means X is rank deficient.
func solveQR(x *mat.Dense, y []float64) ([]float64, error) {
	m, n := x.Dims()
	if m < n {
		return nil, errors.Wrapf(ErrSingularMatrix, "%d observations for %d coefficients", m, n)
	}

	qr := new(mat.QR)
	qr.Factorize(x)

	q := new(mat.Dense)
	r := new(mat.Dense)

	qr.QTo(q)
	qr.RTo(r)

	yT := mat.NewDense(1, len(y), append([]float64(nil), y...))
	yq := new(mat.Dense)
	yq.Mul(yT, q)

	maxDiag := 0.0
	for i := 0; i < n; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(r.At(i, i)))
	}

	c := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		if math.Abs(r.At(i, i)) <= rankTol*maxDiag {
			return nil, errors.Wrapf(ErrSingularMatrix, "rank deficient at column %d", i)
		}
		c[i] = yq.At(0, i)
		for j := i + 1; j < n; j++ {
			c[i] -= c[j] * r.At(i, j)
		}
		c[i] /= r.At(i, i)
	}
	return c, nil
}

// Predict using the OLS model
func (o *OLSRegression) Predict(x mat.Matrix) ([]float64, error) {
	if o.opt == nil {
		return nil, ErrNoOptions
	}
	if x == nil {
		return nil, ErrNoDesignMatrix
	}
	if o.fit == nil {
		return nil, ErrNotFitted
	}

	m, n := x.Dims()
	if n != len(o.coef) {
		return nil, errors.Wrapf(ErrFeatureLenMismatch, "got %d features in design matrix, but expected %d", n, len(o.coef))
	}

	res := make([]float64, m)
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		res[i] = o.intercept + floats.Dot(row, o.coef)
	}
	return res, nil
}

// Score computes the coefficient of determination of the prediction
func (o *OLSRegression) Score(x, y mat.Matrix) (float64, error) {
	if o.opt == nil {
		return 0.0, ErrNoOptions
	}
	if x == nil {
		return 0.0, ErrNoDesignMatrix
	}
	if y == nil {
		return 0.0, ErrNoTargetMatrix
	}

	m, _ := x.Dims()

	ym, _ := y.Dims()
	if m != ym {
		return 0.0, errors.Wrapf(ErrTargetLenMismatch, "design matrix has %d rows and target has %d rows", m, ym)
	}

	res, err := o.Predict(x)
	if err != nil {
		return 0.0, err
	}

	ySlice := mat.Col(nil, 0, y)

	return stat.RSquaredFrom(res, ySlice, nil), nil
}

// Intercept returns the computed intercept if FitIntercept is set to true. Defaults to 0.0 if not set.
func (o *OLSRegression) Intercept() float64 {
	return o.intercept
}

// Coef returns a slice of the trained coefficients in the same order of the training feature Matrix by column.
func (o *OLSRegression) Coef() []float64 {
	c := make([]float64, len(o.coef))
	copy(c, o.coef)
	return c
}

// Result returns the last successful fit in intercept form, or nil if the model has not been
// fit. Without FitIntercept the intercept slot is zero.
func (o *OLSRegression) Result() *Fit {
	return o.fit
}
