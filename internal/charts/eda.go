package charts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gopenguins/domain/penguins"
	"gopenguins/internal/profiling"
)

// diverging blue to red, negative to positive correlation
var correlationColors = []string{"#2166ac", "#67a9cf", "#d1e5f0", "#f7f7f7", "#fddbc7", "#ef8a62", "#b2182b"}

// RenderExploration writes every exploratory chart into one HTML page
func (r *EChartsRenderer) RenderExploration(w io.Writer, ex *profiling.Exploration, decimals int) error {
	page := components.NewPage()
	page.SetPageTitle("Exploratory analysis")
	if r.AssetsHost != "" {
		page.SetAssetsHost(r.AssetsHost)
	}

	page.AddCharts(
		r.bodyMassBox(ex.BodyMass),
		r.scatter("Flipper length vs body mass", penguins.FlipperLength, penguins.BodyMass, ex.FlipperMass),
		r.scatter("Bill length vs body mass", penguins.BillLength, penguins.BodyMass, ex.BillMass),
		r.correlationHeatMap(ex.Correlation.Rounded(decimals)),
		r.scatter(fmt.Sprintf("Bill length vs body mass (%s)", ex.Zoom.Species), penguins.BillLength, penguins.BodyMass, ex.Zoom.BillMass),
		r.scatter(fmt.Sprintf("Flipper length vs body mass (%s)", ex.Zoom.Species), penguins.FlipperLength, penguins.BodyMass, ex.Zoom.FlipperMass),
		r.groupedHistogram(fmt.Sprintf("Body mass distribution (%s)", ex.Zoom.Species), penguins.BodyMass, ex.Zoom.MassBySex),
	)
	return page.Render(w)
}

// initOpts sizes a chart and points it at the configured assets host
func (r *EChartsRenderer) initOpts(title, height string) opts.Initialization {
	o := opts.Initialization{PageTitle: title, Width: "100%", Height: height}
	if r.AssetsHost != "" {
		o.AssetsHost = r.AssetsHost
	}
	return o
}

func (r *EChartsRenderer) bodyMassBox(boxes []profiling.BoxStat) *charts.BoxPlot {
	species := make([]string, len(boxes))
	data := make([]opts.BoxPlotData, len(boxes))
	for i, b := range boxes {
		species[i] = b.Species
		data[i] = opts.BoxPlotData{Name: b.Species, Value: b.Values()}
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithInitializationOpts(r.initOpts("", "420px")),
		charts.WithTitleOpts(opts.Title{Title: "Body mass by species"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Species", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: penguins.BodyMass.Info().Label, Scale: opts.Bool(true)}),
	)
	box.SetXAxis(species).AddSeries("Body mass", data)
	return box
}

func (r *EChartsRenderer) scatter(title string, x, y penguins.Feature, groups []profiling.ScatterGroup) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(r.initOpts("", "460px")),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Scale: opts.Bool(true), Name: x.Info().Label, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Scale: opts.Bool(true), Name: y.Info().Label}),
	)
	for _, g := range groups {
		data := make([]opts.ScatterData, len(g.Points))
		for i, p := range g.Points {
			data[i] = opts.ScatterData{Name: p.Island, Value: []interface{}{p.X, p.Y}}
		}
		symbol := "circle"
		if g.Sex == "Male" {
			symbol = "diamond"
		}
		sc.AddSeries(g.Name(), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 7, Symbol: symbol}))
	}
	return sc
}

func (r *EChartsRenderer) correlationHeatMap(m profiling.CorrelationMatrix) *charts.HeatMap {
	data := make([]opts.HeatMapData, 0, len(m.Columns)*len(m.Columns))
	for i := range m.Columns {
		for j := range m.Columns {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{i, j, m.Values[i][j]}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(r.initOpts("", "480px")),
		charts.WithTitleOpts(opts.Title{Title: "Correlation between numeric variables"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Columns, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: correlationColors},
		}),
	)
	hm.SetXAxis(m.Columns).AddSeries("Correlation", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return hm
}

func (r *EChartsRenderer) groupedHistogram(title string, f penguins.Feature, hist profiling.GroupedHistogram) *charts.Bar {
	labels := make([]string, len(hist.Edges)-1)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.0f", (hist.Edges[i]+hist.Edges[i+1])/2)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(r.initOpts("", "420px")),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: f.Info().Label, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Count"}),
	)
	bar.SetXAxis(labels)
	for _, g := range hist.Groups {
		data := make([]opts.BarData, len(g.Counts))
		for i, c := range g.Counts {
			data[i] = opts.BarData{Value: c}
		}
		bar.AddSeries(g.Name, data)
	}
	return bar
}
