package linearmodel

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrNoOptions          = errors.New("no initialized model options")
	ErrUnknownSolver      = errors.New("unknown solver")
	ErrTargetLenMismatch  = errors.New("target length does not match training rows")
	ErrNoTrainingMatrix   = errors.New("no training matrix")
	ErrNoTargetMatrix     = errors.New("no target matrix")
	ErrNoDesignMatrix     = errors.New("no design matrix for inference")
	ErrFeatureLenMismatch = errors.New("number of features does not match number of model coefficients")
	ErrNotFitted          = errors.New("model has not been fit")

	// ErrSingularMatrix is returned when XᵀX cannot be inverted, e.g. fewer observations than
	// coefficients or perfectly collinear columns. No coefficients are produced.
	ErrSingularMatrix = errors.New("singular design matrix")
)
