package montecarlo

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/adapters/rng"
	"gopenguins/domain/core"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestRun_Properties(t *testing.T) {
	values := []float64{36.7, 38.9, 39.1, 39.2, 39.5, 40.3, 41.1, 42.0, 46.0}

	tests := []struct {
		name      string
		target    float64
		tolerance float64
		samples   int
	}{
		{"single draw", 39.1, 0.5, 1},
		{"narrow band", 39.2, 0.1, 500},
		{"wide band", 40.0, 3.0, 5000},
		{"target below range", 10.0, 1.0, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Run(values, tt.target, tt.tolerance, tt.samples, seeded(7))
			require.NoError(t, err)

			assert.Len(t, est.Samples, tt.samples)
			assert.GreaterOrEqual(t, est.Probability, 0.0)
			assert.LessOrEqual(t, est.Probability, 1.0)
			assert.Equal(t, float64(est.Matches)/float64(tt.samples), est.Probability)
			for _, s := range est.Samples {
				assert.Contains(t, values, s)
			}
		})
	}
}

func TestRun_FullCoverIsCertain(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	for _, n := range []int{1, 17, 1000} {
		est, err := Run(values, 30, 20, n, seeded(int64(n)))
		require.NoError(t, err)
		assert.Equal(t, 1.0, est.Probability, "samples=%d", n)
	}
}

func TestRun_DisjointBandIsImpossible(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	est, err := Run(values, 25, 4.9, 2000, seeded(3))
	require.NoError(t, err)
	assert.Equal(t, 0.0, est.Probability)
	assert.Zero(t, est.Matches)
}

func TestRun_BoundsAreInclusive(t *testing.T) {
	// 40 sits exactly on the lower edge, 50 exactly on the upper edge
	est, err := Run([]float64{40}, 45, 5, 10, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, est.Probability)

	est, err = Run([]float64{50}, 45, 5, 10, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, est.Probability)

	assert.True(t, InBand(40, 40, 50))
	assert.True(t, InBand(50, 40, 50))
	assert.False(t, InBand(math.Nextafter(40, 0), 40, 50))
	assert.False(t, InBand(math.Nextafter(50, 100), 40, 50))
}

func TestRun_DegenerateSingleValue(t *testing.T) {
	for _, n := range []int{1, 10, 10000} {
		est, err := Run([]float64{42.0}, 42.5, 1, n, seeded(11))
		require.NoError(t, err)
		assert.Equal(t, 1.0, est.Probability)
		for _, s := range est.Samples {
			assert.Equal(t, 42.0, s)
		}

		est, err = Run([]float64{42.0}, 50, 1, n, seeded(11))
		require.NoError(t, err)
		assert.Equal(t, 0.0, est.Probability)
	}
}

func TestRun_ConcreteScenario(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	const n = 10000

	est, err := Run(values, 30, 5, n, seeded(20240601))
	require.NoError(t, err)

	se := StandardError(0.2, n)
	assert.InDelta(t, 0.2, est.Probability, 3*se)
	assert.Equal(t, 25.0, est.Lower)
	assert.Equal(t, 35.0, est.Upper)
	for _, s := range est.Samples {
		if InBand(s, est.Lower, est.Upper) {
			assert.Equal(t, 30.0, s)
		}
	}
}

func TestRun_SameSeedSameResult(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	a, err := Run(values, 3, 1, 300, seeded(99))
	require.NoError(t, err)
	b, err := Run(values, 3, 1, 300, seeded(99))
	require.NoError(t, err)
	assert.Equal(t, a.Samples, b.Samples)
	assert.Equal(t, a.Probability, b.Probability)
}

func TestRun_InvalidParameters(t *testing.T) {
	values := []float64{1, 2, 3}

	tests := []struct {
		name      string
		values    []float64
		tolerance float64
		samples   int
		rng       *rand.Rand
	}{
		{"zero tolerance", values, 0, 10, seeded(1)},
		{"negative tolerance", values, -1, 10, seeded(1)},
		{"NaN tolerance", values, math.NaN(), 10, seeded(1)},
		{"zero samples", values, 1, 0, seeded(1)},
		{"negative samples", values, 1, -5, seeded(1)},
		{"empty values", nil, 1, 10, seeded(1)},
		{"nil generator", values, 1, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := Run(tt.values, 2, tt.tolerance, tt.samples, tt.rng)
			assert.Nil(t, est)
			assert.ErrorIs(t, err, core.ErrInvalidParameter)
		})
	}
}

func TestValidate_ConsumesNoRandomness(t *testing.T) {
	r := seeded(5)
	reference := seeded(5)

	_, err := Run([]float64{1}, 1, 0, 10, r)
	require.Error(t, err)
	assert.Equal(t, reference.Int63(), r.Int63())
}

func TestExactFraction(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 0.2, ExactFraction(values, 25, 35))
	assert.Equal(t, 0.6, ExactFraction(values, 20, 40))
	assert.Equal(t, 0.0, ExactFraction(nil, 0, 1))
}

func TestConfidenceInterval(t *testing.T) {
	lo, hi := ConfidenceInterval(0.2, 10000, 0.95)
	assert.InDelta(t, 0.2-1.96*0.004, lo, 1e-4)
	assert.InDelta(t, 0.2+1.96*0.004, hi, 1e-4)

	lo, hi = ConfidenceInterval(1.0, 10, 0.95)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 1.0, hi)

	lo, hi = ConfidenceInterval(0.01, 10, 0.95)
	assert.Equal(t, 0.0, lo)
	assert.LessOrEqual(t, hi, 1.0)
}

func TestStudy_SpreadShrinksWithSampleCount(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	points, err := Study(context.Background(), rng.NewAdapter(), values, 30, 5, StudyConfig{
		SampleCounts: []int{100, 1600},
		Trials:       200,
		Seed:         12345,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	for _, p := range points {
		assert.InDelta(t, 0.2, p.Mean, 0.02)
		assert.Equal(t, 200, p.Trials)
	}
	// 16x the draws should cut the spread by about 4x
	ratio := points[0].StdDev / points[1].StdDev
	assert.Greater(t, ratio, 2.5)
	assert.Less(t, ratio, 6.0)
	assert.InDelta(t, 0.04, points[0].TheoreticalSE, 1e-9)
}

func TestStudy_DeterministicAcrossParallelism(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	cfg := StudyConfig{SampleCounts: []int{50}, Trials: 20, Seed: 9, Parallelism: 1}

	serial, err := Study(context.Background(), rng.NewAdapter(), values, 4, 1, cfg)
	require.NoError(t, err)

	cfg.Parallelism = 8
	parallel, err := Study(context.Background(), rng.NewAdapter(), values, 4, 1, cfg)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestStudy_InvalidConfig(t *testing.T) {
	values := []float64{1, 2}
	_, err := Study(context.Background(), rng.NewAdapter(), values, 1, 1, StudyConfig{SampleCounts: []int{10}, Trials: 1})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = Study(context.Background(), rng.NewAdapter(), values, 1, 1, StudyConfig{Trials: 5})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	_, err = Study(context.Background(), rng.NewAdapter(), values, 1, 0, StudyConfig{SampleCounts: []int{10}, Trials: 5})
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}
