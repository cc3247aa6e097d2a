package config

import (
	"os"
	"strconv"
	"time"

	"gopenguins/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Data       DataConfig
	Simulation SimulationConfig
	Display    DisplayConfig
	LogLevel   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
	ChartAssetsHost string
}

// DataConfig holds dataset settings
type DataConfig struct {
	File  string
	Sheet string
}

// SimulationConfig holds the presentation-level bounds for estimator inputs
type SimulationConfig struct {
	DefaultSamples  int
	MinSamples      int
	MaxSamples      int
	Seed            int64
	MaxTrials       int
	MaxSampleCounts int
}

// DisplayConfig holds formatting settings
type DisplayConfig struct {
	HistogramBins int
	EDABins       int
	Decimals      int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Data:       *loadDataConfig(),
		Simulation: *loadSimulationConfig(),
		Display:    *loadDisplayConfig(),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:     ServerConfig{Port: "8080", GinMode: "release", ShutdownTimeout: 10 * time.Second},
		Data:       DataConfig{File: "penguins.csv"},
		Simulation: SimulationConfig{DefaultSamples: 5000, MinSamples: 100, MaxSamples: 100000, MaxTrials: 1000, MaxSampleCounts: 8},
		Display:    DisplayConfig{HistogramBins: 30, EDABins: 20, Decimals: 2},
		LogLevel:   "INFO",
	}
}

func loadServerConfig() *ServerConfig {
	d := Default().Server
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", d.Port),
		GinMode:         getEnvOrDefault("GIN_MODE", d.GinMode),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", d.ShutdownTimeout),
		ChartAssetsHost: getEnvOrDefault("CHART_ASSETS_HOST", ""),
	}
}

func loadDataConfig() *DataConfig {
	d := Default().Data
	return &DataConfig{
		File:  getEnvOrDefault("DATA_FILE", d.File),
		Sheet: getEnvOrDefault("DATA_SHEET", ""),
	}
}

func loadSimulationConfig() *SimulationConfig {
	d := Default().Simulation
	return &SimulationConfig{
		DefaultSamples:  getEnvIntOrDefault("DEFAULT_SAMPLES", d.DefaultSamples),
		MinSamples:      getEnvIntOrDefault("MIN_SAMPLES", d.MinSamples),
		MaxSamples:      getEnvIntOrDefault("MAX_SAMPLES", d.MaxSamples),
		Seed:            getEnvInt64OrDefault("SIM_SEED", 0),
		MaxTrials:       getEnvIntOrDefault("MAX_TRIALS", d.MaxTrials),
		MaxSampleCounts: getEnvIntOrDefault("MAX_SAMPLE_COUNTS", d.MaxSampleCounts),
	}
}

func loadDisplayConfig() *DisplayConfig {
	d := Default().Display
	return &DisplayConfig{
		HistogramBins: getEnvIntOrDefault("HISTOGRAM_BINS", d.HistogramBins),
		EDABins:       getEnvIntOrDefault("EDA_BINS", d.EDABins),
		Decimals:      getEnvIntOrDefault("DISPLAY_DECIMALS", d.Decimals),
	}
}

func validateConfig(config *Config) error {
	if config.Data.File == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	sim := config.Simulation
	if sim.MinSamples < 1 {
		return errors.ConfigInvalid("MIN_SAMPLES must be >= 1")
	}
	if sim.MaxSamples < sim.MinSamples {
		return errors.ConfigInvalid("MAX_SAMPLES must be >= MIN_SAMPLES")
	}
	if sim.DefaultSamples < sim.MinSamples || sim.DefaultSamples > sim.MaxSamples {
		return errors.ConfigInvalid("DEFAULT_SAMPLES must lie within [MIN_SAMPLES, MAX_SAMPLES]")
	}
	if sim.MaxTrials < 2 {
		return errors.ConfigInvalid("MAX_TRIALS must be >= 2")
	}
	if sim.MaxSampleCounts < 1 {
		return errors.ConfigInvalid("MAX_SAMPLE_COUNTS must be >= 1")
	}
	if config.Display.HistogramBins < 1 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be >= 1")
	}
	if config.Display.EDABins < 1 {
		return errors.ConfigInvalid("EDA_BINS must be >= 1")
	}
	if config.Display.Decimals < 0 {
		return errors.ConfigInvalid("DISPLAY_DECIMALS must be >= 0")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
