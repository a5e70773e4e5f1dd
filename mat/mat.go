// Package mat holds small gonum helpers for assembling regression design matrices
package mat

import (
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrColMismatch    = errors.New("column size mismatch")
	ErrRowMismatch    = errors.New("row size mismatch")
	ErrNoObservations = errors.New("no observations")
)

// NewDenseFromArray builds a dense matrix from a slice of rows. Every row must have the
// same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, errors.Wrapf(ErrColMismatch, "at row %d", i)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if m == 0 || n <= 0 {
		return nil, mat.ErrZeroLength
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromCols builds a dense matrix from a slice of columns of equal length.
func NewDenseFromCols(cols [][]float64) (*mat.Dense, error) {
	n := len(cols)
	if n == 0 {
		return nil, mat.ErrZeroLength
	}
	m := len(cols[0])
	for j, col := range cols {
		if len(col) != m {
			return nil, errors.Wrapf(ErrRowMismatch, "at column %d", j)
		}
	}
	if m == 0 {
		return nil, mat.ErrZeroLength
	}

	mx := mat.NewDense(m, n, nil)
	for j, col := range cols {
		mx.SetCol(j, col)
	}
	return mx, nil
}

// WithIntercept returns a copy of x with a leading column of ones. An x with no columns
// produces the intercept-only design.
func WithIntercept(x mat.Matrix, rows int) (*mat.Dense, error) {
	if x == nil {
		if rows <= 0 {
			return nil, ErrNoObservations
		}
		design := mat.NewDense(rows, 1, nil)
		for i := 0; i < rows; i++ {
			design.Set(i, 0, 1.0)
		}
		return design, nil
	}

	m, n := x.Dims()
	if m == 0 {
		return nil, ErrNoObservations
	}

	design := mat.NewDense(m, n+1, nil)
	for i := 0; i < m; i++ {
		design.Set(i, 0, 1.0)
		for j := 0; j < n; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}
	return design, nil
}

// ColVec returns y as an n x 1 matrix.
func ColVec(y []float64) *mat.Dense {
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data)
}
