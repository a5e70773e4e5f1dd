package dataset

import (
	"fmt"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
)

var ErrInvalidSimulation = errors.New("invalid simulation options")

// Series is a column of generated values that can be composed in place.
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) Scale(c float64) Series {
	floats.Scale(c, s)
	return s
}

func GenerateConst(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateUniform draws n values uniformly from [lo, hi).
func GenerateUniform(r *rand.Rand, n int, lo, hi float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, lo+(hi-lo)*r.Float64())
	}
	return Series(y)
}

// GenerateNoise draws n normally distributed values with standard deviation scale.
func GenerateNoise(r *rand.Rand, n int, scale float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, r.NormFloat64()*scale)
	}
	return Series(y)
}

// GenerateLinear returns intercept + sum(coef[j] * x[j]) for every row of the columns in x.
func GenerateLinear(x []Series, intercept float64, coef []float64) Series {
	if len(x) == 0 {
		return nil
	}
	y := GenerateConst(len(x[0]), intercept)
	term := make(Series, len(y))
	for j, col := range x {
		copy(term, col)
		y.Add(term.Scale(coef[j]))
	}
	return y
}

// SimulateOptions describes a synthetic linear dataset.
type SimulateOptions struct {
	Rows      int
	Intercept float64
	Coef      []float64
	Noise     float64
	Target    string
	Seed      uint64
}

// Simulate generates a table with predictor columns x1..xk drawn uniformly from [0, 10)
// and a target column equal to the linear combination of the predictors plus gaussian noise.
func Simulate(opt SimulateOptions) (*Table, error) {
	if opt.Rows <= 0 {
		return nil, errors.Wrapf(ErrInvalidSimulation, "rows must be positive, got %d", opt.Rows)
	}
	if len(opt.Coef) == 0 {
		return nil, errors.Wrap(ErrInvalidSimulation, "at least one coefficient is required")
	}
	if opt.Noise < 0 {
		return nil, errors.Wrapf(ErrInvalidSimulation, "noise must not be negative, got %f", opt.Noise)
	}
	target := opt.Target
	if target == "" {
		target = "y"
	}

	r := rand.New(rand.NewPCG(opt.Seed, opt.Seed))

	x := make([]Series, len(opt.Coef))
	names := make([]string, 0, len(opt.Coef)+1)
	for j := range opt.Coef {
		x[j] = GenerateUniform(r, opt.Rows, 0, 10)
		names = append(names, fmt.Sprintf("x%d", j+1))
	}
	y := GenerateLinear(x, opt.Intercept, opt.Coef)
	if opt.Noise > 0 {
		y.Add(GenerateNoise(r, opt.Rows, opt.Noise))
	}

	cols := make([][]float64, 0, len(names)+1)
	for _, col := range x {
		cols = append(cols, col)
	}
	cols = append(cols, y)
	names = append(names, target)
	return New(names, cols)
}
