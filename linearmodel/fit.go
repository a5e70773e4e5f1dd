package linearmodel

import (
	"log/slog"

	mat_ "github.com/aouyang1/go-fwdselect/mat"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

// Fit is the outcome of a successful least squares fit. Coef[0] is the intercept and
// Coef[j+1] belongs to the j-th predictor column. Design is the matrix the coefficients
// were solved against, including the leading column of ones.
type Fit struct {
	Coef   []float64
	Design *mat.Dense
}

// Intercept returns the constant term.
func (f *Fit) Intercept() float64 {
	return f.Coef[0]
}

// Predictors returns the coefficients of the predictor columns.
func (f *Fit) Predictors() []float64 {
	return append([]float64(nil), f.Coef[1:]...)
}

// FitOLS solves the normal equations B = (XᵀX)⁻¹XᵀY for the design [1 | x]. A nil x fits an
// intercept only model. If XᵀX is singular the returned error wraps ErrSingularMatrix and
// callers are expected to treat the attribute set as having no fit.
func FitOLS(x mat.Matrix, y []float64) (*Fit, error) {
	if y == nil {
		return nil, ErrNoTargetMatrix
	}
	if x != nil {
		m, _ := x.Dims()
		if m != len(y) {
			return nil, errors.Wrapf(ErrTargetLenMismatch, "training data has %d rows and target has %d rows", m, len(y))
		}
	}

	design, err := mat_.WithIntercept(x, len(y))
	if err != nil {
		return nil, err
	}

	coef, err := solveNormal(design, y)
	if err != nil {
		return nil, err
	}
	return &Fit{
		Coef:   coef,
		Design: design,
	}, nil
}

// FitWithSolver fits the design [1 | x] with solver. SolverNormal is FitOLS, any other solver
// goes through an OLSRegression with an intercept.
func FitWithSolver(x mat.Matrix, y []float64, solver Solver) (*Fit, error) {
	if solver == SolverNormal {
		return FitOLS(x, y)
	}
	if y == nil {
		return nil, ErrNoTargetMatrix
	}

	model, err := NewOLSRegression(&OLSOptions{FitIntercept: true, Solver: solver})
	if err != nil {
		return nil, err
	}
	if err := model.Fit(x, mat_.ColVec(y)); err != nil {
		return nil, err
	}
	return model.Result(), nil
}

// solveNormal computes (XᵀX)⁻¹XᵀY.
func solveNormal(x *mat.Dense, y []float64) ([]float64, error) {
	m, n := x.Dims()

	xtxInv, err := gramInverse(x)
	if err != nil {
		slog.Debug("unable to invert normal equations", "rows", m, "cols", n, "error", err.Error())
		return nil, err
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(m, append([]float64(nil), y...)))

	var b mat.VecDense
	b.MulVec(xtxInv, &xty)

	return mat.Col(nil, 0, &b), nil
}

// gramInverse returns (XᵀX)⁻¹. Inversion failures, including a condition number beyond
// gonum's tolerance, are reported as ErrSingularMatrix.
func gramInverse(x mat.Matrix) (*mat.Dense, error) {
	_, n := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	inv := mat.NewDense(n, n, nil)
	if err := inv.Inverse(&xtx); err != nil {
		return nil, errors.Wrapf(ErrSingularMatrix, "%d x %d gram matrix: %v", n, n, err)
	}
	return inv, nil
}

// CoefCovariance returns σ²(XᵀX)⁻¹, the estimated covariance of the coefficients solved
// against design.
func CoefCovariance(design mat.Matrix, sigma2 float64) (*mat.Dense, error) {
	if design == nil {
		return nil, ErrNoDesignMatrix
	}
	inv, err := gramInverse(design)
	if err != nil {
		return nil, err
	}
	inv.Scale(sigma2, inv)
	return inv, nil
}
