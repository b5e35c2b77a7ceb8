package util

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/fogsched/taskopt/pkg/solution"
)

// FrontSeries is one named set of assignments drawn in time/cost space.
type FrontSeries struct {
	Name   string
	Points []solution.Individual
}

// PlotFronts renders a scatter plot of every series in makespan/cost space,
// together with the (minTime, minCost) lower bound point of the problem.
func PlotFronts(w io.Writer, title string, minTime, minCost float64, series ...FrontSeries) error {
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot for %s", title)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "makespan",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "cost",
			Scale:     opts.Bool(true),
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}))

	scatter.AddSeries("Lower bound", []opts.ScatterData{{
		Value:      []float64{minTime, minCost},
		Symbol:     "diamond",
		SymbolSize: 12,
	}})

	symbols := []string{"triangle", "circle", "rect", "roundRect", "pin"}
	for i, s := range series {
		data := make([]opts.ScatterData, len(s.Points))
		for j, p := range s.Points {
			data[j] = opts.ScatterData{
				Value:      []float64{p.Time(), p.Cost()},
				Symbol:     symbols[i%len(symbols)],
				SymbolSize: 8,
			}
		}
		scatter.AddSeries(s.Name, data)
	}
	scatter.SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{
			Show: opts.Bool(false),
		}),
		charts.WithEmphasisOpts(opts.Emphasis{}),
	)

	return scatter.Render(w)
}

// PlotFrontsFile is PlotFronts writing to a new HTML file at path.
func PlotFrontsFile(path, title string, minTime, minCost float64, series ...FrontSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := PlotFronts(f, title, minTime, minCost, series...); err != nil {
		return err
	}
	return f.Close()
}
