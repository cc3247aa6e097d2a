package testkit

import (
	"os"
	"path/filepath"

	"gopenguins/adapters/rng"
	"gopenguins/domain/penguins"
	"gopenguins/ports"
)

// TestKit provides testing utilities and fixtures
type TestKit struct {
	generator *PenguinDataGenerator
}

// NewTestKit creates a new test kit instance with synthetic data
func NewTestKit() *TestKit {
	return NewTestKitWithConfig(DefaultPenguinConfig())
}

// NewTestKitWithConfig creates a test kit with a custom generator config
func NewTestKitWithConfig(config PenguinGeneratorConfig) *TestKit {
	return &TestKit{generator: NewPenguinDataGenerator(config)}
}

// RNGAdapter returns an RNG adapter
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewAdapter()
}

// Table returns a clean synthetic table
func (t *TestKit) Table() *penguins.Table {
	return t.generator.Table()
}

// RawCSV returns a messy CSV rendering of the synthetic table
func (t *TestKit) RawCSV(missingRows int) string {
	return t.generator.RawCSV(missingRows)
}

// WriteRawCSV writes RawCSV into dir and returns the file path
func (t *TestKit) WriteRawCSV(dir string, missingRows int) (string, error) {
	path := filepath.Join(dir, "penguins.csv")
	if err := os.WriteFile(path, []byte(t.RawCSV(missingRows)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
