package charts

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"gopenguins/domain/simulation"
	"gopenguins/internal/profiling"
)

// PNGRenderer draws a static histogram image
type PNGRenderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewPNGRenderer creates a renderer with a 8x5 inch canvas
func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{Width: 8 * vg.Inch, Height: 5 * vg.Inch}
}

// ContentType of the rendered output
func (r *PNGRenderer) ContentType() string {
	return "image/png"
}

// RenderHistogram writes the histogram with the target band shaded behind it
func (r *PNGRenderer) RenderHistogram(w io.Writer, result *simulation.Result, bins int) error {
	hist, err := profiling.BuildHistogram(result.Samples, bins)
	if err != nil {
		return err
	}

	req := result.Request
	label := req.Feature.Info().Label

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Simulated distribution of %s in %s", label, req.Species)
	p.X.Label.Text = label
	p.Y.Label.Text = "Simulated frequency"

	h := &plotter.Histogram{
		FillColor: color.RGBA{R: 31, G: 119, B: 180, A: 255},
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = color.White
	maxCount := 0
	for i, c := range hist.Counts {
		h.Bins = append(h.Bins, plotter.HistogramBin{Min: hist.Edges[i], Max: hist.Edges[i+1], Weight: float64(c)})
		if c > maxCount {
			maxCount = c
		}
	}
	if len(hist.Edges) > 1 {
		h.Width = hist.Edges[1] - hist.Edges[0]
	}

	band, err := plotter.NewPolygon(plotter.XYs{
		{X: req.Lower(), Y: 0},
		{X: req.Upper(), Y: 0},
		{X: req.Upper(), Y: float64(maxCount)},
		{X: req.Lower(), Y: float64(maxCount)},
	})
	if err != nil {
		return fmt.Errorf("failed to build target band: %w", err)
	}
	band.Color = color.RGBA{R: 255, A: 51}
	band.LineStyle.Width = 0

	p.Add(band, h)
	p.Legend.Add("Target range", band)
	p.Legend.Add("Simulations", h)

	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to render histogram: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
