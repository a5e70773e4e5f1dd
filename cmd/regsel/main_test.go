package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aouyang1/go-fwdselect/config"
	"github.com/aouyang1/go-fwdselect/dataset"
	"github.com/aouyang1/go-fwdselect/linearmodel"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func simulatedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	_, _, err := execute(t, "simulate", "--rows", "50", "--coef", "3,0,-2", "--features", "3", "--seed", "4", "-o", path)
	require.Nil(t, err)
	return path
}

func TestRunText(t *testing.T) {
	path := simulatedFile(t)

	stdout, _, err := execute(t, "-f", path, "--seed", "42")
	require.Nil(t, err)

	assert.Contains(t, stdout, "seed = 42\n")
	assert.Contains(t, stdout, "== Full fit: 3 attributes ==")
	for _, line := range []string{"RSS = ", "sigma2 = ", "R2 = ", "R2 adj = ", "F = "} {
		assert.Contains(t, stdout, line)
	}
	assert.Contains(t, stdout, "1 attributes -> RSS = ")
	assert.Contains(t, stdout, "3 attributes -> RSS = ")
	assert.Contains(t, stdout, "attributes:\n[")

	again, _, err := execute(t, "-f", path, "--seed", "42")
	require.Nil(t, err)
	assert.Equal(t, stdout, again, "same seed reproduces the report")
}

func TestRunEnv(t *testing.T) {
	path := simulatedFile(t)
	t.Setenv("REGSEL_SEED", "42")

	stdout, _, err := execute(t, "-f", path)
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(stdout, "seed = 42\n"))

	stdout, _, err = execute(t, "-f", path, "--seed", "7")
	require.Nil(t, err)
	assert.True(t, strings.HasPrefix(stdout, "seed = 7\n"), "flags win over the environment")

	t.Setenv("REGSEL_SEED", "abc")
	_, _, err = execute(t, "-f", path)
	assert.ErrorIs(t, err, config.ErrInvalidEnv)
}

func TestRunJSON(t *testing.T) {
	path := simulatedFile(t)

	stdout, _, err := execute(t, "-f", path, "--seed", "7", "--format", "json", "--attributes", "x1,x3", "--workers", "2")
	require.Nil(t, err)

	var doc struct {
		Seed    uint64 `json:"seed"`
		Target  string `json:"target"`
		FullFit struct {
			Attributes []string `json:"attributes"`
		} `json:"full_fit"`
		Rounds []json.RawMessage `json:"rounds"`
	}
	require.Nil(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, uint64(7), doc.Seed)
	assert.Equal(t, "weight", doc.Target)
	assert.Equal(t, []string{"x1", "x3"}, doc.FullFit.Attributes)
	assert.Len(t, doc.Rounds, 2)
}

func TestRunSolver(t *testing.T) {
	path := simulatedFile(t)

	normal, _, err := execute(t, "-f", path, "--seed", "5", "--format", "json")
	require.Nil(t, err)
	qr, _, err := execute(t, "-f", path, "--seed", "5", "--format", "json", "--solver", "qr")
	require.Nil(t, err)

	type rounds struct {
		Rounds []struct {
			Attributes []string `json:"attributes"`
		} `json:"rounds"`
	}
	var a, b rounds
	require.Nil(t, json.Unmarshal([]byte(normal), &a))
	require.Nil(t, json.Unmarshal([]byte(qr), &b))
	assert.Equal(t, a, b, "both solvers select the same attributes")
}

func TestRunOutputs(t *testing.T) {
	path := simulatedFile(t)
	dir := t.TempDir()
	chart := filepath.Join(dir, "chart.html")
	plot := filepath.Join(dir, "plot.png")

	_, _, err := execute(t, "-f", path, "--seed", "3", "--chart", chart, "--plot", plot)
	require.Nil(t, err)

	html, err := os.ReadFile(chart)
	require.Nil(t, err)
	assert.Contains(t, string(html), "Forward Selection")

	png, err := os.ReadFile(plot)
	require.Nil(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestRunConfig(t *testing.T) {
	path := simulatedFile(t)
	cfgPath := filepath.Join(t.TempDir(), "regsel.yaml")
	cfg := "file: " + path + "\nseed: 11\nformat: json\nattributes: [x2]\n"
	require.Nil(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	stdout, _, err := execute(t, "--config", cfgPath, "--format", "text")
	require.Nil(t, err)
	assert.Contains(t, stdout, "seed = 11\n", "config seed is used")
	assert.Contains(t, stdout, "== Full fit: 1 attributes ==", "flags override the config format")
}

func TestRunErrors(t *testing.T) {
	path := simulatedFile(t)

	testData := map[string]struct {
		args []string
		err  error
	}{
		"missing file flag": {
			args: []string{"--seed", "1"},
			err:  ErrNoFile,
		},
		"unreadable file": {
			args: []string{"-f", filepath.Join(t.TempDir(), "missing.txt")},
			err:  os.ErrNotExist,
		},
		"unknown target": {
			args: []string{"-f", path, "--target", "height"},
			err:  dataset.ErrUnknownColumn,
		},
		"invalid test size": {
			args: []string{"-f", path, "--test-size", "1.5"},
			err:  config.ErrInvalidTestSize,
		},
		"invalid format": {
			args: []string{"-f", path, "--format", "xml"},
			err:  config.ErrInvalidFormat,
		},
		"unknown solver": {
			args: []string{"-f", path, "--solver", "svd"},
			err:  linearmodel.ErrUnknownSolver,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := execute(t, td.args...)
			assert.ErrorIs(t, err, td.err)
			assert.Empty(t, stdout, "no partial report")
		})
	}
}

func TestSimulate(t *testing.T) {
	stdout, _, err := execute(t, "simulate", "--rows", "5", "--features", "2", "--noise", "0")
	require.Nil(t, err)

	tbl, err := dataset.Read(strings.NewReader(stdout))
	require.Nil(t, err)
	assert.Equal(t, []string{"x1", "x2", "weight"}, tbl.Names())
	assert.Equal(t, 5, tbl.NumRows())

	_, _, err = execute(t, "simulate", "--features", "2", "--coef", "1,2,3")
	assert.ErrorIs(t, err, ErrCoefCount)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.With("run", 1).WithGroup("fit").Info("fitted", "rss", 1.5, "attributes", []string{"x1"})
	logger.Error("failed", errAttrKey, errors.New("singular"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "fitted")
	assert.Contains(t, out, "run=1")
	assert.Contains(t, out, "fit.rss=1.5")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "singular")
	assert.Contains(t, out, stacktraceAttrKey)
}

func TestZerologLevel(t *testing.T) {
	testData := map[string]struct {
		in       slog.Level
		expected zerolog.Level
	}{
		"debug": {in: slog.LevelDebug, expected: zerolog.DebugLevel},
		"info":  {in: slog.LevelInfo, expected: zerolog.InfoLevel},
		"warn":  {in: slog.LevelWarn, expected: zerolog.WarnLevel},
		"error": {in: slog.LevelError, expected: zerolog.ErrorLevel},
	}
	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, zerologLevel(td.in))
		})
	}

	h := newZerologHandler(zerolog.Nop(), slog.LevelWarn)
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
