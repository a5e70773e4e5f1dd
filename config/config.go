// Package config holds the run configuration of the regsel command, read from a YAML file and
// REGSEL_* environment variables on top of the defaults.
package config

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"
	"github.com/aouyang1/go-fwdselect/selection"
	"github.com/aouyang1/go-fwdselect/stats"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTestSize = errors.New("test size must be between 0 and 1 exclusive")
	ErrInvalidFormat   = errors.New("unknown report format")
	ErrInvalidWorkers  = errors.New("workers must be at least 1")
	ErrInvalidLogLevel = errors.New("unknown log level")
	ErrInvalidProfile  = errors.New("unknown profile mode")
	ErrInvalidEnv      = errors.New("invalid environment variable")
	ErrNoTarget        = errors.New("no target column")
)

const (
	FormatText = "text"
	FormatJSON = "json"

	ProfileCPU = "cpu"
	ProfileMem = "mem"

	// MaxRandomSeed is the upper bound of a seed drawn when none is configured
	MaxRandomSeed = 9999

	envPrefix = "REGSEL_"
)

// Config is the full set of run options. A zero Seed asks for a random seed per run.
type Config struct {
	File         string   `json:"file" yaml:"file"`
	Target       string   `json:"target" yaml:"target"`
	Attributes   []string `json:"attributes" yaml:"attributes"`
	TestSize     float64  `json:"test_size" yaml:"test_size"`
	Seed         uint64   `json:"seed" yaml:"seed"`
	Reselect     bool     `json:"reselect" yaml:"reselect"`
	CorrectedTSS bool     `json:"corrected_tss" yaml:"corrected_tss"`
	Workers      int      `json:"workers" yaml:"workers"`
	Solver       string   `json:"solver" yaml:"solver"`
	Format       string   `json:"format" yaml:"format"`
	Chart        string   `json:"chart" yaml:"chart"`
	Plot         string   `json:"plot" yaml:"plot"`
	LogLevel     string   `json:"log_level" yaml:"log_level"`
	Profile      string   `json:"profile" yaml:"profile"`
}

// NewDefaultConfig returns the default configuration
func NewDefaultConfig() *Config {
	return &Config{
		Target:   "weight",
		TestSize: dataset.DefaultTestSize,
		Workers:  1,
		Solver:   linearmodel.SolverNormal.String(),
		Format:   FormatText,
		LogLevel: "warn",
	}
}

// Load reads the YAML file at path over the defaults and applies REGSEL_* environment
// variables. The result is validated.
func Load(path string) (*Config, error) {
	c := NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return c.Validate()
}

// ApplyEnv overrides fields from REGSEL_TARGET, REGSEL_TEST_SIZE, REGSEL_SEED, REGSEL_WORKERS
// and REGSEL_LOG_LEVEL as reported by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "TARGET"); ok {
		c.Target = v
	}
	if v, ok := lookup(envPrefix + "TEST_SIZE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%sTEST_SIZE=%q", envPrefix, v)
		}
		c.TestSize = f
	}
	if v, ok := lookup(envPrefix + "SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%sSEED=%q", envPrefix, v)
		}
		c.Seed = seed
	}
	if v, ok := lookup(envPrefix + "WORKERS"); ok {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%sWORKERS=%q", envPrefix, v)
		}
		c.Workers = workers
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

// Validate checks every field and returns the defaults for a nil receiver
func (c *Config) Validate() (*Config, error) {
	if c == nil {
		return NewDefaultConfig(), nil
	}

	if c.Target == "" {
		return nil, ErrNoTarget
	}
	if c.TestSize <= 0 || c.TestSize >= 1 || math.IsNaN(c.TestSize) {
		return nil, errors.Wrapf(ErrInvalidTestSize, "got %f", c.TestSize)
	}
	if c.Workers < 1 {
		return nil, errors.Wrapf(ErrInvalidWorkers, "got %d", c.Workers)
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return nil, errors.Wrapf(ErrInvalidFormat, "%q", c.Format)
	}

	if _, err := linearmodel.ParseSolver(c.Solver); err != nil {
		return nil, err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return nil, err
	}

	c.Profile = strings.ToLower(c.Profile)
	switch c.Profile {
	case "", ProfileCPU, ProfileMem:
	default:
		return nil, errors.Wrapf(ErrInvalidProfile, "%q", c.Profile)
	}
	return c, nil
}

// ParseLogLevel maps debug, info, warn and error to their slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, errors.Wrapf(ErrInvalidLogLevel, "%q", level)
	}
}

// ResolveSeed returns the configured seed, or a seed drawn uniformly from [1, MaxRandomSeed]
// with r when none is configured.
func (c *Config) ResolveSeed(r *rand.Rand) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(r.IntN(MaxRandomSeed)) + 1
}

// SelectionOptions translates the configuration into forward selection options.
func (c *Config) SelectionOptions() *selection.Options {
	solver, _ := linearmodel.ParseSolver(c.Solver)
	return &selection.Options{
		TestSize: c.TestSize,
		Reselect: c.Reselect,
		Workers:  c.Workers,
		Solver:   solver,
		EvalOptions: &stats.EvalOptions{
			CorrectedTSS: c.CorrectedTSS,
		},
	}
}

// ResolveAttributes returns the configured attributes, or every column of t except the target
// in header order when none are configured.
func (c *Config) ResolveAttributes(t *dataset.Table) []string {
	if len(c.Attributes) > 0 {
		return append([]string(nil), c.Attributes...)
	}
	names := t.Names()
	attributes := make([]string, 0, len(names))
	for _, name := range names {
		if name != c.Target {
			attributes = append(attributes, name)
		}
	}
	return attributes
}
