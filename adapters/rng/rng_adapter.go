package rng

import (
	"context"
	"math/rand"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Adapter hands out independent *rand.Rand generators. It holds no state,
// so one value can be shared by every request.
type Adapter struct{}

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a generator for a named operation. Seed 0 asks for a
// non-deterministic stream.
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(ResolveSeed(seed))), nil
}

// Stream derives a deterministic generator from the base seed and the
// run/stage/key triple
func (a *Adapter) Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (*rand.Rand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(DeriveSeed(baseSeed, runID, stageName, key))), nil
}

// DeriveSeed mixes the parts into a 63-bit seed
func DeriveSeed(baseSeed int64, parts ...string) int64 {
	d := xxhash.New()
	_, _ = d.WriteString(strconv.FormatInt(baseSeed, 10))
	for _, p := range parts {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(p)
	}
	return int64(d.Sum64() >> 1)
}

// ResolveSeed replaces 0 with a fresh non-zero seed so callers can report
// the seed that reproduces a run
func ResolveSeed(seed int64) int64 {
	for seed == 0 {
		seed = rand.Int63()
	}
	return seed
}
