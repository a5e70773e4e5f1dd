package report

import (
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineRounds generates an echart line chart of the test RSS after every forward selection round.
// Rounds without a fit are left out.
func LineRounds(title string, rounds []int, rss []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "attributes",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: "RSS",
			},
		),
	)

	x := make([]string, 0, len(rounds))
	lineData := make([]opts.LineData, 0, len(rss))
	for i := 0; i < len(rss); i++ {
		if math.IsNaN(rss[i]) || math.IsInf(rss[i], 0) {
			continue
		}
		x = append(x, strconv.Itoa(rounds[i]))
		lineData = append(lineData, opts.LineData{Value: rss[i]})
	}

	line.SetXAxis(x).AddSeries("RSS", lineData)
	return line
}

// ScatterFit generates an echart scatter chart of predicted against actual values.
func ScatterFit(title string, predicted, actual []float64) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "actual",
				Type: "value",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name: "predicted",
				Type: "value",
			},
		),
	)

	points := make([]opts.ScatterData, 0, len(actual))
	for i := 0; i < len(actual) && i < len(predicted); i++ {
		if math.IsNaN(predicted[i]) || math.IsInf(predicted[i], 0) {
			continue
		}
		points = append(points, opts.ScatterData{Value: []float64{actual[i], predicted[i]}})
	}

	scatter.AddSeries("test rows", points)
	return scatter
}

// RenderHTML uses the Apache Echarts library to write an html page with the RSS of every
// forward selection round and the predicted against actual test values of the full fit.
func RenderHTML(w io.Writer, r *Report) error {
	if err := r.validate(); err != nil {
		return err
	}
	if len(r.Full.Predicted) != len(r.Full.Actual) {
		return ErrPlotSource
	}

	rounds, rss := roundSeries(r)

	page := components.NewPage()
	page.AddCharts(
		LineRounds("Forward Selection", rounds, rss),
		ScatterFit("Full Fit on Test Rows", r.Full.Predicted, r.Full.Actual),
	)
	return page.Render(w)
}

func roundSeries(r *Report) ([]int, []float64) {
	rounds := make([]int, 0, len(r.Selection.Rounds))
	rss := make([]float64, 0, len(r.Selection.Rounds))
	for _, round := range r.Selection.Rounds {
		rounds = append(rounds, round.Index)
		rss = append(rss, round.RSS)
	}
	return rounds, rss
}
