package profiling

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"gopenguins/domain/core"
)

// Summary mirrors a dataframe describe() row plus shape markers
type Summary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}

// Rounded returns a copy with every statistic rounded for display
func (s Summary) Rounded(places int) Summary {
	r := func(v float64) float64 { return round(v, places) }
	return Summary{
		Count: s.Count, Mean: r(s.Mean), StdDev: r(s.StdDev), Min: r(s.Min), Q25: r(s.Q25),
		Median: r(s.Median), Q75: r(s.Q75), Max: r(s.Max), Skewness: r(s.Skewness), Outliers: s.Outliers,
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// Describe computes summary statistics of one numeric column
func Describe(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, core.NewInvalidParameterError("values", "must not be empty")
	}
	summary := Summary{Count: len(data)}

	mean, err := stats.Mean(data)
	if err != nil {
		return summary, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return summary, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return summary, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return summary, err
	}

	// sample standard deviation, undefined below two values
	stdDev := 0.0
	if len(data) > 1 {
		stdDev, err = stats.StandardDeviationSample(data)
		if err != nil {
			return summary, err
		}
	}

	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	q25 := stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	q75 := stat.Quantile(0.75, stat.LinInterp, sorted, nil)

	summary.Mean = mean
	summary.StdDev = stdDev
	summary.Min = min
	summary.Max = max
	summary.Median = median
	summary.Q25 = q25
	summary.Q75 = q75
	summary.Skewness = calculateSkewness(data, mean, stdDev)
	summary.Outliers = detectOutliers(data, q25, q75)
	return summary, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}

// Histogram holds equal-width bin counts
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// BinOf returns the bin index containing v, or -1
func (h Histogram) BinOf(v float64) int {
	for i := 0; i+1 < len(h.Edges); i++ {
		if v >= h.Edges[i] && v < h.Edges[i+1] {
			return i
		}
	}
	return -1
}

// BuildHistogram bins data into equal-width bins spanning [min, max]
func BuildHistogram(data []float64, bins int) (Histogram, error) {
	if len(data) == 0 {
		return Histogram{}, core.NewInvalidParameterError("values", "must not be empty")
	}
	if bins < 1 {
		return Histogram{}, core.NewInvalidParameterError("bins", fmt.Sprintf("must be >= 1, got %d", bins))
	}

	sorted := sortedCopy(data)
	edges := equalWidthEdges(sorted[0], sorted[len(sorted)-1], bins)
	return Histogram{Edges: edges, Counts: countBins(edges, sorted)}, nil
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

// equalWidthEdges splits [lo, hi] into bins equal-width bins
func equalWidthEdges(lo, hi float64, bins int) []float64 {
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	// the top edge is exclusive in stat.Histogram, so nudge it past the max
	edges[bins] = math.Nextafter(hi, math.Inf(1))
	return edges
}

// countBins counts sorted values per bin; every value must lie within the edges
func countBins(edges, sorted []float64) []int {
	weights := stat.Histogram(nil, edges, sorted, nil)
	counts := make([]int, len(weights))
	for i, w := range weights {
		counts[i] = int(w)
	}
	return counts
}
