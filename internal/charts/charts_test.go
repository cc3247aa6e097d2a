package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/domain/penguins"
	"gopenguins/domain/simulation"
	"gopenguins/internal/profiling"
	"gopenguins/internal/testkit"
	"gopenguins/ports"
)

var (
	_ ports.ChartRenderer = (*EChartsRenderer)(nil)
	_ ports.ChartRenderer = (*PNGRenderer)(nil)
)

func sampleResult() *simulation.Result {
	return &simulation.Result{
		Request: simulation.Request{
			Species:   "Gentoo",
			Feature:   penguins.BodyMass,
			Target:    5000,
			Tolerance: 50,
			Samples:   8,
		},
		Samples:     []float64{4700, 4950, 5000, 5000, 5050, 5200, 5400, 5650},
		Matches:     4,
		Probability: 0.5,
	}
}

func TestEChartsRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewEChartsRenderer("")
	require.NoError(t, r.RenderHistogram(&buf, sampleResult(), 10))

	html := buf.String()
	assert.Contains(t, html, "Body mass (g)")
	assert.Contains(t, html, "Gentoo")
	assert.Contains(t, html, bandColor)
	assert.Contains(t, r.ContentType(), "text/html")
}

func TestEChartsRenderer_Exploration(t *testing.T) {
	ex, err := profiling.Explore(testkit.NewTestKit().Table(), "Gentoo", profiling.DefaultEDABins)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewEChartsRenderer("").RenderExploration(&buf, ex, 2))

	html := buf.String()
	for _, s := range []string{"Exploratory analysis", "boxplot", "heatmap", "scatter", "Gentoo Male", correlationColors[0]} {
		assert.Contains(t, html, s)
	}
	assert.Contains(t, html, "Body mass distribution (Gentoo)")
}

func TestPNGRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewPNGRenderer()
	require.NoError(t, r.RenderHistogram(&buf, sampleResult(), 10))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Equal(t, "image/png", r.ContentType())
}

func TestRenderers_RejectEmptySamples(t *testing.T) {
	res := sampleResult()
	res.Samples = nil

	var buf bytes.Buffer
	assert.Error(t, NewEChartsRenderer("").RenderHistogram(&buf, res, 10))
	assert.Error(t, NewPNGRenderer().RenderHistogram(&buf, res, 10))
}
