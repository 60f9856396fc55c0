package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/mlography/internal/grain"
)

// WriteHTML renders an interactive page with a box plot of grain sizes per
// model and a bar chart of the mean grain size per (model, degem) group.
// assetsHost overrides where the echarts scripts are loaded from; empty
// keeps the library default.
func WriteHTML(w io.Writer, records []grain.Record, assetsHost string) error {
	series := SeriesByModel(records)

	names := make([]string, len(series))
	boxes := make([]opts.BoxPlotData, len(series))
	for i, s := range series {
		names[i] = s.Name
		five := FiveNumber(s.Values)
		boxes[i] = opts.BoxPlotData{Name: s.Name, Value: five[:]}
	}

	initOpts := opts.Initialization{PageTitle: "Grain size", Width: "100%", Height: "600px"}
	if assetsHost != "" {
		initOpts.AssetsHost = assetsHost
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: "Grain size by model", Subtitle: fmt.Sprintf("records=%d", len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "px", NameLocation: "middle", NameGap: 40}),
	)
	box.SetXAxis(names).AddSeries("grain size", boxes)

	groups := grain.GroupStats(records)
	labels := make([]string, len(groups))
	means := make([]opts.BarData, len(groups))
	for i, g := range groups {
		labels[i] = g.Model + " / " + g.Identifier
		means[i] = opts.BarData{Value: g.Mean}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{Title: "Mean grain size by model and degem"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).
		AddSeries("mean", means,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	if assetsHost != "" {
		page.SetAssetsHost(assetsHost)
	}
	page.AddCharts(box, bar)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
