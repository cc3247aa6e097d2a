package app

import (
	"context"
	"fmt"
	"time"

	"gopenguins/adapters/montecarlo"
	"gopenguins/adapters/rng"
	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/domain/simulation"
	"gopenguins/internal"
	"gopenguins/internal/metrics"
	"gopenguins/ports"
)

const simulationStream = "simulation"

// SampleLimits bounds the sample counts accepted from interactive callers.
// A zero value disables the corresponding bound.
type SampleLimits struct {
	Min int
	Max int
}

// SimulationConfig configures the simulation service
type SimulationConfig struct {
	DefaultSamples int
	Limits         SampleLimits
	Confidence     float64
	// Seed replaces a zero per-call seed; zero here means fresh entropy
	Seed int64
}

// DefaultSimulationConfig mirrors the dashboard defaults
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		DefaultSamples: 5000,
		Limits:         SampleLimits{Min: 100, Max: 100000},
		Confidence:     montecarlo.DefaultConfidence,
	}
}

// Preparation is what a caller needs before asking for an estimate: the
// observed range of the selection and suggested parameters
type Preparation struct {
	Species string                `json:"species"`
	Feature penguins.FeatureInfo  `json:"feature"`
	Range   penguins.FeatureRange `json:"range"`
	Request simulation.Request    `json:"suggested"`
}

// StudyRequest describes a convergence study over one selection
type StudyRequest struct {
	Species      string           `json:"species"`
	Feature      penguins.Feature `json:"feature"`
	Target       float64          `json:"target"`
	Tolerance    float64          `json:"tolerance"`
	SampleCounts []int            `json:"sample_counts"`
	Trials       int              `json:"trials"`
}

// SimulationService runs Monte Carlo estimates against the loaded dataset
type SimulationService struct {
	dataset *DatasetService
	rngPort ports.RNGPort
	metrics *metrics.Recorder
	config  SimulationConfig
	logger  *internal.Logger
}

// NewSimulationService creates a simulation service. The metrics recorder may be nil.
func NewSimulationService(dataset *DatasetService, rngPort ports.RNGPort, recorder *metrics.Recorder, config SimulationConfig) *SimulationService {
	if config.Confidence <= 0 || config.Confidence >= 1 {
		config.Confidence = montecarlo.DefaultConfidence
	}
	return &SimulationService{
		dataset: dataset,
		rngPort: rngPort,
		metrics: recorder,
		config:  config,
		logger:  internal.DefaultLogger.WithComponent("Simulation"),
	}
}

// Config returns the service configuration
func (s *SimulationService) Config() SimulationConfig {
	return s.config
}

// Prepare returns the observed range of a selection with suggested
// parameters: target at the mean, the feature's default tolerance and the
// default sample count
func (s *SimulationService) Prepare(species string, feature penguins.Feature) (*Preparation, error) {
	table, err := s.dataset.Table()
	if err != nil {
		return nil, err
	}
	if !feature.Valid() {
		return nil, core.NewNotFoundError(core.ErrUnknownFeature, string(feature))
	}
	observed, err := table.Range(species, feature)
	if err != nil {
		return nil, err
	}
	info := feature.Info()
	return &Preparation{
		Species: species,
		Feature: info,
		Range:   observed,
		Request: simulation.Request{
			Species:   species,
			Feature:   feature,
			Target:    simulation.Round(observed.Mean, 2),
			Tolerance: info.DefaultTolerance,
			Samples:   s.config.DefaultSamples,
		},
	}, nil
}

// CheckSamples applies the interactive sample-count bounds
func (s *SimulationService) CheckSamples(samples int) error {
	l := s.config.Limits
	if l.Min > 0 && samples < l.Min {
		return core.NewInvalidParameterError("samples", fmt.Sprintf("must be >= %d", l.Min))
	}
	if l.Max > 0 && samples > l.Max {
		return core.NewInvalidParameterError("samples", fmt.Sprintf("must be <= %d", l.Max))
	}
	return nil
}

// selection resolves the values of a species/feature pair
func (s *SimulationService) selection(species string, feature penguins.Feature) ([]float64, penguins.FeatureRange, error) {
	table, err := s.dataset.Table()
	if err != nil {
		return nil, penguins.FeatureRange{}, err
	}
	if !feature.Valid() {
		return nil, penguins.FeatureRange{}, core.NewNotFoundError(core.ErrUnknownFeature, string(feature))
	}
	values, err := table.Values(species, feature)
	if err != nil {
		return nil, penguins.FeatureRange{}, err
	}
	observed, err := table.Range(species, feature)
	if err != nil {
		return nil, penguins.FeatureRange{}, err
	}
	return values, observed, nil
}

// Run estimates the probability that a resampled observation falls within
// the tolerance band. A zero seed is replaced by a fresh one, reported on
// the result so the run can be repeated.
func (s *SimulationService) Run(ctx context.Context, req simulation.Request, seed int64) (*simulation.Result, error) {
	result, err := s.run(ctx, req, seed)
	if err != nil {
		outcome := metrics.OutcomeError
		if core.IsInvalidParameter(err) || core.IsNotFoundError(err) {
			outcome = metrics.OutcomeRejected
		}
		s.metrics.ObserveFailure(req.Species, string(req.Feature), outcome)
		return nil, err
	}
	s.metrics.ObserveSimulation(req.Species, string(req.Feature), req.Samples, result.Probability)
	return result, nil
}

// Replay reruns a request with the seed of an earlier result, for charts of
// that result. It is not recorded in the metrics.
func (s *SimulationService) Replay(ctx context.Context, req simulation.Request, seed int64) (*simulation.Result, error) {
	if seed == 0 {
		return nil, core.NewInvalidParameterError("seed", "a replay needs the seed of the original run")
	}
	return s.run(ctx, req, seed)
}

func (s *SimulationService) run(ctx context.Context, req simulation.Request, seed int64) (*simulation.Result, error) {
	values, observed, err := s.selection(req.Species, req.Feature)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.CheckSamples(req.Samples); err != nil {
		return nil, err
	}

	outOfRange := !observed.Contains(req.Target)
	if outOfRange {
		s.logger.Warn("target %.2f outside observed range [%.2f, %.2f] for %s/%s",
			req.Target, observed.Min, observed.Max, req.Species, req.Feature)
	}

	seed = s.resolveSeed(seed)
	stream, err := s.rngPort.SeededStream(ctx, simulationStream, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create random stream: %w", err)
	}

	started := time.Now()
	est, err := montecarlo.Run(values, req.Target, req.Tolerance, req.Samples, stream)
	if err != nil {
		return nil, err
	}
	low, high := montecarlo.ConfidenceInterval(est.Probability, len(est.Samples), s.config.Confidence)

	result := &simulation.Result{
		RunID:          core.NewRunID(),
		Request:        req,
		Range:          observed,
		Samples:        est.Samples,
		Matches:        est.Matches,
		Probability:    est.Probability,
		StandardError:  montecarlo.StandardError(est.Probability, len(est.Samples)),
		ConfidenceLow:  low,
		ConfidenceHigh: high,
		ExactFraction:  montecarlo.ExactFraction(values, est.Lower, est.Upper),
		OutOfRange:     outOfRange,
		Seed:           seed,
		CreatedAt:      time.Now().UTC(),
	}

	s.logger.Debug("run %s: %s/%s p=%.4f n=%d seed=%d in %v",
		result.RunID, req.Species, req.Feature, result.Probability, req.Samples, seed, time.Since(started))
	return result, nil
}

func (s *SimulationService) resolveSeed(seed int64) int64 {
	if seed == 0 {
		seed = s.config.Seed
	}
	return rng.ResolveSeed(seed)
}

// Study runs a convergence study over the selection
func (s *SimulationService) Study(ctx context.Context, req StudyRequest, seed int64) (*simulation.ConvergenceReport, error) {
	values, _, err := s.selection(req.Species, req.Feature)
	if err != nil {
		return nil, err
	}
	band := simulation.Request{Species: req.Species, Feature: req.Feature, Target: req.Target, Tolerance: req.Tolerance, Samples: 1}
	if err := band.Validate(); err != nil {
		return nil, err
	}
	for _, n := range req.SampleCounts {
		if err := s.CheckSamples(n); err != nil {
			return nil, err
		}
	}

	seed = s.resolveSeed(seed)
	points, err := montecarlo.Study(ctx, s.rngPort, values, req.Target, req.Tolerance, montecarlo.StudyConfig{
		SampleCounts: req.SampleCounts,
		Trials:       req.Trials,
		Seed:         seed,
	})
	if err != nil {
		return nil, err
	}

	return &simulation.ConvergenceReport{
		Request:       band,
		ExactFraction: montecarlo.ExactFraction(values, band.Lower(), band.Upper()),
		Points:        points,
		Seed:          seed,
	}, nil
}
