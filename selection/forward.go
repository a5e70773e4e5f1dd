// Package selection grows a set of regression attributes one at a time, keeping at every step the
// attribute that minimizes the residual sum of squares on a held out test split.
package selection

import (
	"log/slog"
	"math"
	"slices"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"
	"github.com/aouyang1/go-fwdselect/stats"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoCandidates      = errors.New("no candidate attributes")
	ErrTargetAsCandidate = errors.New("target cannot be a candidate attribute")
)

// Trial is one candidate evaluated within a round.
type Trial struct {
	Attribute string  `json:"attribute"`
	RSS       float64 `json:"rss"`
	Singular  bool    `json:"singular"`
}

// Round is the outcome of one forward selection step. Attributes is the selection after the
// round. If no candidate could be fitted Found is false, RSS is +Inf and Attributes is the
// selection carried over from the previous round.
type Round struct {
	Index      int      `json:"index"`
	Attributes []string `json:"attributes"`
	RSS        float64  `json:"rss"`
	Found      bool     `json:"found"`
	Tried      int      `json:"tried"`
	Failed     int      `json:"failed"`
	Trials     []Trial  `json:"trials,omitempty"`
}

// Result holds every round of a forward selection run and the round with the lowest test RSS.
type Result struct {
	Rounds []Round `json:"rounds"`
	Best   Round   `json:"best"`
	Seed   uint64  `json:"seed"`
}

// holdout is a table split once into train and test rows. Every trial of a run selects its
// columns from the same two halves.
type holdout struct {
	train  *dataset.Table
	test   *dataset.Table
	yTrain []float64
	yTest  []float64
}

func newHoldout(t *dataset.Table, target string, testSize float64, seed uint64) (*holdout, error) {
	y, err := t.Column(target)
	if err != nil {
		return nil, err
	}
	split, err := dataset.TrainTestSplit(t.NumRows(), testSize, seed)
	if err != nil {
		return nil, err
	}
	train, err := t.Rows(split.Train)
	if err != nil {
		return nil, err
	}
	test, err := t.Rows(split.Test)
	if err != nil {
		return nil, err
	}

	h := &holdout{
		train:  train,
		test:   test,
		yTrain: make([]float64, len(split.Train)),
		yTest:  make([]float64, len(split.Test)),
	}
	for k, i := range split.Train {
		h.yTrain[k] = y[i]
	}
	for k, i := range split.Test {
		h.yTest[k] = y[i]
	}
	return h, nil
}

// testRSS fits attributes on the training rows and returns the RSS over the test rows. A
// singular design is reported through linearmodel.ErrSingularMatrix.
func (h *holdout) testRSS(attributes []string, opt *Options) (float64, error) {
	xTrain, err := h.train.Select(attributes)
	if err != nil {
		return 0, err
	}
	fit, err := linearmodel.FitWithSolver(xTrain.Matrix(), h.yTrain, opt.Solver)
	if err != nil {
		return 0, err
	}

	xTest, err := h.test.Select(attributes)
	if err != nil {
		return 0, err
	}
	metrics, err := stats.Evaluate(xTest.Matrix(), h.yTest, fit.Coef, opt.EvalOptions)
	if err != nil {
		return 0, err
	}
	return metrics.RSS, nil
}

func validateInputs(t *dataset.Table, candidates []string, target string) error {
	if len(candidates) == 0 {
		return ErrNoCandidates
	}
	if !t.Has(target) {
		return errors.Wrapf(dataset.ErrUnknownColumn, "target %q", target)
	}
	for _, c := range candidates {
		if c == target {
			return errors.Wrapf(ErrTargetAsCandidate, "%q", c)
		}
		if !t.Has(c) {
			return errors.Wrapf(dataset.ErrUnknownColumn, "attribute %q", c)
		}
	}
	return nil
}

// Forward runs len(candidates) rounds of forward selection over t. Each round tries every
// eligible candidate appended to the current selection, fits it on the training split and
// keeps the candidate with the lowest test RSS. Ties go to the earliest candidate. The split
// is the same for every trial of the run.
func Forward(t *dataset.Table, candidates []string, target string, seed uint64, opt *Options) (*Result, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if err := validateInputs(t, candidates, target); err != nil {
		return nil, err
	}

	h, err := newHoldout(t, target, opt.TestSize, seed)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Rounds: make([]Round, 0, len(candidates)),
		Best:   Round{RSS: math.Inf(1)},
		Seed:   seed,
	}

	var selected []string
	for k := 1; k <= len(candidates); k++ {
		round, err := runRound(h, selected, candidates, opt)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", k)
		}
		round.Index = k
		if round.Found {
			selected = round.Attributes
		} else {
			round.Attributes = append([]string(nil), selected...)
			slog.Warn("no candidate could be fitted", "round", k, "tried", round.Tried)
		}
		slog.Info("forward selection round", "round", k, "rss", round.RSS, "attributes", round.Attributes)

		if round.Found && round.RSS < res.Best.RSS {
			res.Best = round
		}
		res.Rounds = append(res.Rounds, round)
	}
	return res, nil
}

func runRound(h *holdout, selected, candidates []string, opt *Options) (Round, error) {
	eligible := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !opt.Reselect && slices.Contains(selected, c) {
			continue
		}
		eligible = append(eligible, c)
	}

	trials := make([]Trial, len(eligible))
	try := func(i int) error {
		attrs := make([]string, 0, len(selected)+1)
		attrs = append(attrs, selected...)
		attrs = append(attrs, eligible[i])

		rss, err := h.testRSS(attrs, opt)
		trials[i].Attribute = eligible[i]
		if errors.Is(err, linearmodel.ErrSingularMatrix) {
			slog.Debug("skipping singular candidate", "attribute", eligible[i], "attributes", attrs)
			trials[i].Singular = true
			trials[i].RSS = math.Inf(1)
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "candidate %q", eligible[i])
		}
		slog.Debug("evaluated candidate", "attribute", eligible[i], "rss", rss)
		trials[i].RSS = rss
		return nil
	}

	if opt.Workers > 1 && len(eligible) > 1 {
		var g errgroup.Group
		g.SetLimit(opt.Workers)
		for i := range eligible {
			g.Go(func() error {
				return try(i)
			})
		}
		if err := g.Wait(); err != nil {
			return Round{}, err
		}
	} else {
		for i := range eligible {
			if err := try(i); err != nil {
				return Round{}, err
			}
		}
	}

	round := Round{
		RSS:    math.Inf(1),
		Tried:  len(eligible),
		Trials: trials,
	}
	bestIdx := -1
	for i, trial := range trials {
		if trial.Singular {
			round.Failed++
			continue
		}
		if trial.RSS < round.RSS {
			round.RSS = trial.RSS
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return round, nil
	}

	round.Found = true
	round.Attributes = make([]string, 0, len(selected)+1)
	round.Attributes = append(round.Attributes, selected...)
	round.Attributes = append(round.Attributes, eligible[bestIdx])
	return round, nil
}
