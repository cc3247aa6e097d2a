package ports

import (
	"io"

	"gopenguins/domain/simulation"
)

// ChartRenderer draws the histogram of resampled values with the target band
type ChartRenderer interface {
	RenderHistogram(w io.Writer, result *simulation.Result, bins int) error
	ContentType() string
}

