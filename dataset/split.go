package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/cockroachdb/errors"
)

// DefaultTestSize is the fraction of rows held out for evaluation.
const DefaultTestSize = 0.3

var (
	ErrInvalidTestSize = errors.New("test size must be between 0 and 1 exclusive")
	ErrTooFewRows      = errors.New("too few rows to split into non-empty train and test sets")
)

// Split holds disjoint train and test row indices that together cover every row.
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles the row indices 0..n-1 with a generator seeded by seed and holds
// out the first ceil(testSize*n) of them for testing. The same arguments always produce the
// same split.
func TrainTestSplit(n int, testSize float64, seed uint64) (Split, error) {
	if testSize <= 0 || testSize >= 1 || math.IsNaN(testSize) {
		return Split{}, errors.Wrapf(ErrInvalidTestSize, "got %f", testSize)
	}
	if n < 2 {
		return Split{}, errors.Wrapf(ErrTooFewRows, "got %d rows", n)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest == 0 || nTrain <= 0 {
		return Split{}, errors.Wrapf(ErrTooFewRows, "%d rows with test size %f", n, testSize)
	}

	r := rand.New(rand.NewPCG(seed, seed))
	perm := r.Perm(n)

	return Split{
		Train: append([]int(nil), perm[nTest:]...),
		Test:  append([]int(nil), perm[:nTest]...),
	}, nil
}

// Partition is a table split into train and test features and targets.
type Partition struct {
	XTrain *Table
	XTest  *Table
	YTrain []float64
	YTest  []float64
}

// SplitXY selects the attribute columns and the target from t and splits the rows with
// TrainTestSplit. Attributes may repeat.
func SplitXY(t *Table, attributes []string, target string, testSize float64, seed uint64) (*Partition, error) {
	x, err := t.Select(attributes)
	if err != nil {
		return nil, err
	}
	y, err := t.Column(target)
	if err != nil {
		return nil, err
	}

	split, err := TrainTestSplit(t.NumRows(), testSize, seed)
	if err != nil {
		return nil, err
	}

	xTrain, err := x.Rows(split.Train)
	if err != nil {
		return nil, err
	}
	xTest, err := x.Rows(split.Test)
	if err != nil {
		return nil, err
	}

	return &Partition{
		XTrain: xTrain,
		XTest:  xTest,
		YTrain: pick(y, split.Train),
		YTest:  pick(y, split.Test),
	}, nil
}

func pick(y []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for k, i := range idx {
		out[k] = y[i]
	}
	return out
}
