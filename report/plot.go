package report

import (
	"io"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	plotWidth  = 12 * vg.Inch
	plotHeight = 5 * vg.Inch
)

func finiteXYs(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}
		xys = append(xys, plotter.XY{X: x[i], Y: y[i]})
	}
	return xys
}

func roundsPlot(r *Report) (*plot.Plot, error) {
	rounds, rss := roundSeries(r)
	x := make([]float64, len(rounds))
	for i, k := range rounds {
		x[i] = float64(k)
	}

	p := plot.New()
	p.Title.Text = "Forward Selection"
	p.X.Label.Text = "attributes"
	p.Y.Label.Text = "RSS"

	xys := finiteXYs(x, rss)
	if len(xys) == 0 {
		return p, nil
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	p.Add(line, points, plotter.NewGrid())
	return p, nil
}

func fitPlot(r *Report) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Full Fit on Test Rows"
	p.X.Label.Text = "actual"
	p.Y.Label.Text = "predicted"

	xys := finiteXYs(r.Full.Actual, r.Full.Predicted)
	if len(xys) == 0 {
		return p, nil
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	p.Add(scatter, plotter.NewGrid())
	return p, nil
}

// WritePlot draws the RSS of every forward selection round next to the predicted against
// actual test values of the full fit and writes the image to w as PNG.
func WritePlot(w io.Writer, r *Report) error {
	if err := r.validate(); err != nil {
		return err
	}
	if len(r.Full.Predicted) != len(r.Full.Actual) {
		return ErrPlotSource
	}

	left, err := roundsPlot(r)
	if err != nil {
		return errors.Wrap(err, "unable to plot rounds")
	}
	right, err := fitPlot(r)
	if err != nil {
		return errors.Wrap(err, "unable to plot full fit")
	}

	plots := [][]*plot.Plot{{left, right}}
	img := vgimg.New(plotWidth, plotHeight)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter,
		PadY:      vg.Millimeter,
		PadTop:    vg.Points(2),
		PadBottom: vg.Points(2),
		PadLeft:   vg.Points(2),
		PadRight:  vg.Points(2),
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	png := vgimg.PngCanvas{Canvas: img}
	_, err = png.WriteTo(w)
	return err
}

// SavePlot writes the WritePlot image to a PNG file at path.
func SavePlot(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePlot(file, r); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
