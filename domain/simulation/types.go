package simulation

import (
	"math"
	"time"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
)

// Request is an immutable description of one estimation
type Request struct {
	Species   string           `json:"species"`
	Feature   penguins.Feature `json:"feature"`
	Target    float64          `json:"target"`
	Tolerance float64          `json:"tolerance"`
	Samples   int              `json:"samples"`
}

// Lower is the inclusive lower edge of the tolerance band
func (r Request) Lower() float64 {
	return r.Target - r.Tolerance
}

// Upper is the inclusive upper edge of the tolerance band
func (r Request) Upper() float64 {
	return r.Target + r.Tolerance
}

// Validate checks the numeric parameters. Species and feature membership is
// checked against a concrete table by the caller.
func (r Request) Validate() error {
	if math.IsNaN(r.Target) || math.IsInf(r.Target, 0) {
		return core.NewInvalidParameterError("target", "must be a finite number")
	}
	if math.IsNaN(r.Tolerance) || r.Tolerance <= 0 {
		return core.NewInvalidParameterError("tolerance", "must be > 0")
	}
	if r.Samples < 1 {
		return core.NewInvalidParameterError("samples", "must be >= 1")
	}
	return nil
}

// Result is the packaged outcome of a run. It is never mutated after creation.
type Result struct {
	RunID          core.RunID            `json:"run_id"`
	Request        Request               `json:"request"`
	Range          penguins.FeatureRange `json:"range"`
	Samples        []float64             `json:"samples"`
	Matches        int                   `json:"matches"`
	Probability    float64               `json:"probability"`
	StandardError  float64               `json:"standard_error"`
	ConfidenceLow  float64               `json:"confidence_low"`
	ConfidenceHigh float64               `json:"confidence_high"`
	ExactFraction  float64               `json:"exact_fraction"`
	OutOfRange     bool                  `json:"out_of_range"`
	Seed           int64                 `json:"seed"`
	CreatedAt      time.Time             `json:"created_at"`
}

// Percent returns the probability as a percentage at full precision
func (r Result) Percent() float64 {
	return r.Probability * 100.0
}

// RoundedPercent rounds the percentage for display only
func (r Result) RoundedPercent(places int) float64 {
	return Round(r.Percent(), places)
}

// Round rounds half away from zero to the given number of decimal places
func Round(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// ConvergencePoint aggregates repeated estimates at one sample count
type ConvergencePoint struct {
	Samples       int     `json:"samples"`
	Trials        int     `json:"trials"`
	Mean          float64 `json:"mean"`
	StdDev        float64 `json:"std_dev"`
	TheoreticalSE float64 `json:"theoretical_se"`
}

// ConvergenceReport is the output of a convergence study
type ConvergenceReport struct {
	Request       Request            `json:"request"`
	ExactFraction float64            `json:"exact_fraction"`
	Points        []ConvergencePoint `json:"points"`
	Seed          int64              `json:"seed"`
}
