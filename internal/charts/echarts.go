package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gopenguins/domain/simulation"
	"gopenguins/internal/profiling"
)

const (
	bandColor   = "#d62728"
	sampleColor = "#1f77b4"
)

// EChartsRenderer draws an interactive HTML histogram
type EChartsRenderer struct {
	// AssetsHost overrides where echarts.js is loaded from; empty uses the library default
	AssetsHost string
}

// NewEChartsRenderer creates an HTML renderer
func NewEChartsRenderer(assetsHost string) *EChartsRenderer {
	return &EChartsRenderer{AssetsHost: assetsHost}
}

// ContentType of the rendered output
func (r *EChartsRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// RenderHistogram writes a bar chart of the resampled values. Bins that
// overlap the tolerance band are highlighted.
func (r *EChartsRenderer) RenderHistogram(w io.Writer, result *simulation.Result, bins int) error {
	hist, err := profiling.BuildHistogram(result.Samples, bins)
	if err != nil {
		return err
	}

	req := result.Request
	label := req.Feature.Info().Label
	lower, upper := req.Lower(), req.Upper()

	xLabels := make([]string, len(hist.Counts))
	data := make([]opts.BarData, len(hist.Counts))
	for i, c := range hist.Counts {
		lo, hi := hist.Edges[i], hist.Edges[i+1]
		xLabels[i] = fmt.Sprintf("%.1f", (lo+hi)/2)
		color := sampleColor
		if hi >= lower && lo <= upper {
			color = bandColor
		}
		data[i] = opts.BarData{
			Name:      fmt.Sprintf("[%.2f, %.2f)", lo, hi),
			Value:     c,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.initOpts("Monte Carlo simulation", "520px")),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Simulated distribution of %s in %s", label, req.Species),
			Subtitle: fmt.Sprintf("target range [%.2f, %.2f]  estimate %.2f %%  n=%d",
				lower, upper, result.Percent(), len(result.Samples)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: label, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Simulated frequency"}),
	)
	bar.SetXAxis(xLabels).AddSeries("Simulations", data)

	return bar.Render(w)
}
