package selection

import (
	"math"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"
	"github.com/aouyang1/go-fwdselect/stats"

	"github.com/cockroachdb/errors"
)

// Options configures Forward and FullFit
type Options struct {
	// TestSize is the fraction of rows held out for evaluation. Zero means dataset.DefaultTestSize.
	TestSize float64 `json:"test_size"`

	// Reselect keeps already selected attributes in the candidate pool of later rounds. A
	// re-selected attribute duplicates its column in the design matrix, which normally makes
	// the fit singular and the candidate is skipped.
	Reselect bool `json:"reselect"`

	// Workers bounds how many candidates of a round are fitted concurrently. Values below 1
	// run sequentially.
	Workers int `json:"workers"`

	// Solver selects how every fit is solved. The zero value solves the normal equations.
	Solver linearmodel.Solver `json:"solver"`

	EvalOptions *stats.EvalOptions `json:"eval_options"`
}

// NewDefaultOptions returns the default selection options
func NewDefaultOptions() *Options {
	return &Options{
		TestSize:    dataset.DefaultTestSize,
		Workers:     1,
		EvalOptions: stats.NewDefaultEvalOptions(),
	}
}

// Validate fills unset fields with defaults and checks the test size
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		return NewDefaultOptions(), nil
	}

	opt := *o
	if opt.TestSize == 0 {
		opt.TestSize = dataset.DefaultTestSize
	}
	if opt.TestSize <= 0 || opt.TestSize >= 1 || math.IsNaN(opt.TestSize) {
		return nil, errors.Wrapf(dataset.ErrInvalidTestSize, "got %f", opt.TestSize)
	}
	if opt.Workers < 1 {
		opt.Workers = 1
	}
	switch opt.Solver {
	case linearmodel.SolverNormal, linearmodel.SolverQR:
	default:
		return nil, errors.Wrapf(linearmodel.ErrUnknownSolver, "%d", int(opt.Solver))
	}

	evalOpt, err := opt.EvalOptions.Validate()
	if err != nil {
		return nil, err
	}
	opt.EvalOptions = evalOpt
	return &opt, nil
}
