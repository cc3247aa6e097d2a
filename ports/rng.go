package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides random number generators to the estimator.
// Every call returns a fresh generator owned by the caller.
type RNGPort interface {
	// SeededStream creates a random number generator for a named operation.
	// A zero seed requests a non-deterministic stream.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream derives a deterministic generator for one trial of a multi-trial
	// operation so concurrent trials never share state
	Stream(ctx context.Context, runID, stageName, key string, baseSeed int64) (*rand.Rand, error)
}
