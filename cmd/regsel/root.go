package main

import (
	"bytes"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/aouyang1/go-fwdselect/config"
	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/report"
	"github.com/aouyang1/go-fwdselect/selection"

	"github.com/cockroachdb/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var ErrNoFile = errors.New("no dataset file, set -f/--file or file in the config")

type rootFlags struct {
	configPath   string
	file         string
	target       string
	attributes   []string
	testSize     float64
	seed         uint64
	reselect     bool
	correctedTSS bool
	workers      int
	solver       string
	format       string
	chart        string
	plot         string
	logLevel     string
	profile      string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &rootFlags{}
	defaults := config.NewDefaultConfig()

	cmd := &cobra.Command{
		Use:   "regsel",
		Short: "Fit a multivariate linear regression and run forward selection on test RSS",
		Long: "regsel loads a whitespace delimited table, fits ordinary least squares on every " +
			"attribute against the target using a seeded train/test split, and then grows the " +
			"attribute set one attribute at a time keeping the one that minimizes the test RSS.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML configuration file")
	flags.StringVarP(&f.file, "file", "f", "", "whitespace delimited dataset with a header line")
	flags.StringVar(&f.target, "target", defaults.Target, "target column")
	flags.StringSliceVar(&f.attributes, "attributes", nil, "candidate attributes, defaults to every column but the target")
	flags.Float64Var(&f.testSize, "test-size", defaults.TestSize, "fraction of rows held out for testing")
	flags.Uint64Var(&f.seed, "seed", 0, "split seed, 0 draws a random seed in [1, 9999]")
	flags.BoolVar(&f.reselect, "reselect", false, "keep already selected attributes as candidates")
	flags.BoolVar(&f.correctedTSS, "corrected-tss", false, "measure TSS from the observed targets")
	flags.IntVar(&f.workers, "workers", defaults.Workers, "candidates fitted concurrently per round")
	flags.StringVar(&f.solver, "solver", defaults.Solver, "least squares solver, normal or qr")
	flags.StringVar(&f.format, "format", defaults.Format, "report format, text or json")
	flags.StringVar(&f.chart, "chart", "", "write an html chart page to this path")
	flags.StringVar(&f.plot, "plot", "", "write a png plot to this path")
	flags.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "debug, info, warn or error")
	flags.StringVar(&f.profile, "profile", "", "profile the run, cpu or mem")

	cmd.AddCommand(newSimulateCmd(stdout))
	return cmd
}

// resolveConfig starts from the config file, or the defaults, with REGSEL_* environment
// variables applied, and overrides every field whose flag was set explicitly.
func resolveConfig(cmd *cobra.Command, f *rootFlags) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	} else if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.File = f.file
	}
	if flags.Changed("target") {
		cfg.Target = f.target
	}
	if flags.Changed("attributes") {
		cfg.Attributes = f.attributes
	}
	if flags.Changed("test-size") {
		cfg.TestSize = f.testSize
	}
	if flags.Changed("seed") {
		cfg.Seed = f.seed
	}
	if flags.Changed("reselect") {
		cfg.Reselect = f.reselect
	}
	if flags.Changed("corrected-tss") {
		cfg.CorrectedTSS = f.correctedTSS
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("solver") {
		cfg.Solver = f.solver
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("chart") {
		cfg.Chart = f.chart
	}
	if flags.Changed("plot") {
		cfg.Plot = f.plot
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("profile") {
		cfg.Profile = f.profile
	}

	if cfg.File == "" {
		return nil, ErrNoFile
	}
	return cfg.Validate()
}

func run(cfg *config.Config, stdout, stderr io.Writer) error {
	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(newLogger(stderr, level))

	switch cfg.Profile {
	case config.ProfileCPU:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case config.ProfileMem:
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	tbl, err := dataset.Load(cfg.File)
	if err != nil {
		slog.Error("unable to load dataset", "file", cfg.File, errAttrKey, err)
		return err
	}

	seed := cfg.ResolveSeed(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	attributes := cfg.ResolveAttributes(tbl)
	opt := cfg.SelectionOptions()
	slog.Info("loaded dataset", "file", cfg.File, "rows", tbl.NumRows(), "attributes", attributes, "seed", seed)

	full, err := selection.FullFit(tbl, attributes, cfg.Target, seed, opt)
	if err != nil {
		slog.Error("full attribute fit failed", errAttrKey, err)
		return err
	}
	sel, err := selection.Forward(tbl, attributes, cfg.Target, seed, opt)
	if err != nil {
		slog.Error("forward selection failed", errAttrKey, err)
		return err
	}

	r := &report.Report{
		Seed:      seed,
		Target:    cfg.Target,
		Full:      full,
		Selection: sel,
	}

	var buf bytes.Buffer
	switch cfg.Format {
	case config.FormatJSON:
		err = report.WriteJSON(&buf, r)
	default:
		err = report.WriteText(&buf, r)
	}
	if err != nil {
		return err
	}

	if cfg.Chart != "" {
		if err := writeChart(cfg.Chart, r); err != nil {
			return errors.Wrapf(err, "unable to write chart %s", cfg.Chart)
		}
	}
	if cfg.Plot != "" {
		if err := report.SavePlot(cfg.Plot, r); err != nil {
			return errors.Wrapf(err, "unable to write plot %s", cfg.Plot)
		}
	}

	_, err = buf.WriteTo(stdout)
	return err
}

func writeChart(path string, r *report.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.RenderHTML(file, r); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
