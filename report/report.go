// Package report renders the outcome of a full attribute fit and a forward selection run as
// text, JSON, an echarts HTML page or a PNG plot.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aouyang1/go-fwdselect/selection"

	"github.com/cockroachdb/errors"
)

var (
	ErrNoReport   = errors.New("no report")
	ErrNoFullFit  = errors.New("report has no full attribute fit")
	ErrNoRounds   = errors.New("report has no forward selection rounds")
	ErrPlotSource = errors.New("predicted and actual values have different lengths")
)

// Report is everything a run produces.
type Report struct {
	Seed      uint64
	Target    string
	Full      *selection.FullFitResult
	Selection *selection.Result
}

func (r *Report) validate() error {
	if r == nil {
		return ErrNoReport
	}
	if r.Full == nil {
		return ErrNoFullFit
	}
	if r.Selection == nil || len(r.Selection.Rounds) == 0 {
		return ErrNoRounds
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteText writes a plain text report. Non-finite statistics are printed as +Inf, -Inf or NaN.
func WriteText(w io.Writer, r *Report) error {
	if err := r.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	full := r.Full
	m := full.Metrics

	fmt.Fprintf(bw, "seed = %d\n", r.Seed)
	fmt.Fprintf(bw, "\n== Full fit: %d attributes ==\n", len(full.Attributes))
	fmt.Fprintf(bw, "RSS = %s\n", formatFloat(m.RSS))
	fmt.Fprintf(bw, "sigma2 = %s\n", formatFloat(m.Sigma2))
	fmt.Fprintf(bw, "R2 = %s\n", formatFloat(m.R2))
	fmt.Fprintf(bw, "R2 adj = %s\n", formatFloat(m.R2Adj))
	fmt.Fprintf(bw, "F = %s\n", formatFloat(m.F))

	fmt.Fprintf(bw, "\n%-16s %14s %14s %14s\n", "term", "coef", "std err", "SE2")
	for i, c := range full.Coef {
		name := "(intercept)"
		if i > 0 {
			name = full.Attributes[i-1]
		}
		stdErr, se2 := "", ""
		if i < len(full.CoefStdErr) {
			stdErr = formatFloat(full.CoefStdErr[i])
		}
		if i < len(full.SquaredStdErr) {
			se2 = formatFloat(full.SquaredStdErr[i])
		}
		fmt.Fprintf(bw, "%-16s %14.6g %14s %14s\n", name, c, stdErr, se2)
	}

	if len(full.VIF) > 0 {
		fmt.Fprintf(bw, "\n%-16s %14s\n", "attribute", "VIF")
		for _, name := range full.Attributes {
			fmt.Fprintf(bw, "%-16s %14s\n", name, formatFloat(full.VIF[name]))
		}
	}
	if len(full.Outliers) > 0 {
		fmt.Fprintf(bw, "\ntest residual outliers at rows %v\n", full.Outliers)
	}

	fmt.Fprintf(bw, "\n== Forward selection ==\n")
	for _, round := range r.Selection.Rounds {
		fmt.Fprintf(bw, "%d attributes -> RSS = %s\n", round.Index, formatFloat(round.RSS))
	}

	best := r.Selection.Best
	fmt.Fprintf(bw, "\nRSS = %s using %d attributes:\n", formatFloat(best.RSS), len(best.Attributes))
	fmt.Fprintf(bw, "[%s]\n", strings.Join(best.Attributes, ", "))

	return bw.Flush()
}
