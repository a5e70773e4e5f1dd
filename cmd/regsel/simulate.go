package main

import (
	"io"
	"os"

	"github.com/aouyang1/go-fwdselect/dataset"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var ErrCoefCount = errors.New("number of coefficients does not match number of features")

type simulateFlags struct {
	rows      int
	features  int
	coef      []float64
	intercept float64
	noise     float64
	target    string
	seed      uint64
	output    string
}

func newSimulateCmd(stdout io.Writer) *cobra.Command {
	f := &simulateFlags{}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Write a synthetic linear dataset in the regsel input format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt, err := f.options()
			if err != nil {
				return err
			}
			tbl, err := dataset.Simulate(opt)
			if err != nil {
				return err
			}

			if f.output == "" {
				return dataset.Write(stdout, tbl)
			}
			return writeTable(f.output, tbl)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.rows, "rows", 100, "number of rows")
	flags.IntVar(&f.features, "features", 3, "number of predictor columns")
	flags.Float64SliceVar(&f.coef, "coef", nil, "predictor coefficients, defaults to 1..features")
	flags.Float64Var(&f.intercept, "intercept", 0, "constant term")
	flags.Float64Var(&f.noise, "noise", 1, "standard deviation of the gaussian noise")
	flags.StringVar(&f.target, "target", "weight", "target column")
	flags.Uint64Var(&f.seed, "seed", 1, "generator seed")
	flags.StringVarP(&f.output, "output", "o", "", "output file, defaults to stdout")
	return cmd
}

func (f *simulateFlags) options() (dataset.SimulateOptions, error) {
	coef := f.coef
	if len(coef) == 0 {
		coef = make([]float64, f.features)
		for j := range coef {
			coef[j] = float64(j + 1)
		}
	}
	if len(coef) != f.features {
		return dataset.SimulateOptions{}, errors.Wrapf(ErrCoefCount, "got %d coefficients for %d features", len(coef), f.features)
	}
	return dataset.SimulateOptions{
		Rows:      f.rows,
		Intercept: f.intercept,
		Coef:      coef,
		Noise:     f.noise,
		Target:    f.target,
		Seed:      f.seed,
	}, nil
}

func writeTable(path string, tbl *dataset.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.Write(file, tbl); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
