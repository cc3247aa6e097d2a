package montecarlo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"gopenguins/domain/core"
)

// DefaultConfidence is the coverage of the interval reported with an estimate
const DefaultConfidence = 0.95

// Estimate is the raw output of one resampling run
type Estimate struct {
	Samples     []float64
	Matches     int
	Probability float64
	Lower       float64
	Upper       float64
}

// Validate checks estimator inputs before any randomness is consumed
func Validate(values []float64, tolerance float64, samples int) error {
	if len(values) == 0 {
		return core.NewInvalidParameterError("values", "must not be empty")
	}
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return core.NewInvalidParameterError("tolerance", "must be > 0")
	}
	if samples < 1 {
		return core.NewInvalidParameterError("samples", "must be >= 1")
	}
	return nil
}

// Run draws samples values uniformly with replacement from values and
// returns the fraction landing in [target-tolerance, target+tolerance].
// The generator is owned by the caller; nothing else is shared between calls.
func Run(values []float64, target, tolerance float64, samples int, rng *rand.Rand) (*Estimate, error) {
	if err := Validate(values, tolerance, samples); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, core.NewInvalidParameterError("rng", "must not be nil")
	}

	lower, upper := target-tolerance, target+tolerance
	draws := Resample(values, samples, rng)

	matches := 0
	for _, d := range draws {
		if InBand(d, lower, upper) {
			matches++
		}
	}

	return &Estimate{
		Samples:     draws,
		Matches:     matches,
		Probability: float64(matches) / float64(samples),
		Lower:       lower,
		Upper:       upper,
	}, nil
}

// Resample draws n values with replacement, each index equally likely
func Resample(values []float64, n int, rng *rand.Rand) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = values[rng.Intn(len(values))]
	}
	return out
}

// InBand is the match rule; both edges count.
func InBand(d, lower, upper float64) bool {
	return d >= lower && d <= upper
}

// ExactFraction is the share of values inside the band, i.e. the limit the
// estimate converges to as the sample count grows
func ExactFraction(values []float64, lower, upper float64) float64 {
	if len(values) == 0 {
		return 0
	}
	n := 0
	for _, v := range values {
		if InBand(v, lower, upper) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// StandardError of a binomial proportion p estimated from n draws
func StandardError(p float64, n int) float64 {
	if n < 1 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// ConfidenceInterval is the normal-approximation interval around p, clamped to [0,1]
func ConfidenceInterval(p float64, n int, confidence float64) (float64, float64) {
	if confidence <= 0 || confidence >= 1 {
		confidence = DefaultConfidence
	}
	z := distuv.UnitNormal.Quantile(1 - (1-confidence)/2)
	half := z * StandardError(p, n)
	return math.Max(0, p-half), math.Min(1, p+half)
}
