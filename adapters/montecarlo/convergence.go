package montecarlo

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"gopenguins/domain/core"
	"gopenguins/domain/simulation"
	"gopenguins/ports"
)

const convergenceStage = "convergence"

// StudyConfig describes a convergence study
type StudyConfig struct {
	SampleCounts []int
	Trials       int
	Seed         int64
	// Parallelism bounds concurrent trials; <= 0 means GOMAXPROCS
	Parallelism int
}

// Study repeats the estimate Trials times at every sample count and reports
// the spread of the estimates. Each trial draws from its own derived stream,
// so results are reproducible for a given seed regardless of scheduling.
func Study(ctx context.Context, rngPort ports.RNGPort, values []float64, target, tolerance float64, cfg StudyConfig) ([]simulation.ConvergencePoint, error) {
	if cfg.Trials < 2 {
		return nil, core.NewInvalidParameterError("trials", "must be >= 2")
	}
	if len(cfg.SampleCounts) == 0 {
		return nil, core.NewInvalidParameterError("sample_counts", "must not be empty")
	}
	for _, n := range cfg.SampleCounts {
		if err := Validate(values, tolerance, n); err != nil {
			return nil, err
		}
	}

	limit := cfg.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	points := make([]simulation.ConvergencePoint, len(cfg.SampleCounts))
	for i, n := range cfg.SampleCounts {
		estimates := make([]float64, cfg.Trials)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for trial := 0; trial < cfg.Trials; trial++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng, err := rngPort.Stream(gctx, strconv.Itoa(n), convergenceStage, strconv.Itoa(trial), cfg.Seed)
				if err != nil {
					return err
				}
				est, err := Run(values, target, tolerance, n, rng)
				if err != nil {
					return err
				}
				estimates[trial] = est.Probability
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		mean, std := stat.MeanStdDev(estimates, nil)
		points[i] = simulation.ConvergencePoint{
			Samples:       n,
			Trials:        cfg.Trials,
			Mean:          mean,
			StdDev:        std,
			TheoreticalSE: StandardError(ExactFraction(values, target-tolerance, target+tolerance), n),
		}
	}
	return points, nil
}
