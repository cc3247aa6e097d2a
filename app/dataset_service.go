package app

import (
	"context"
	"sync"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/internal"
	"gopenguins/internal/etl"
	"gopenguins/internal/profiling"
	"gopenguins/ports"
)

// DatasetService owns the cleaned table for the lifetime of the process.
// The table is loaded once and handed to whoever needs it; nothing else
// caches it.
type DatasetService struct {
	source ports.TableSource
	logger *internal.Logger

	mu     sync.RWMutex
	table  *penguins.Table
	report *etl.Report
}

// NewDatasetService creates a dataset service backed by the given source
func NewDatasetService(source ports.TableSource) *DatasetService {
	return &DatasetService{
		source: source,
		logger: internal.DefaultLogger.WithComponent("Dataset"),
	}
}

// NewDatasetServiceFromTable wraps an already prepared table
func NewDatasetServiceFromTable(table *penguins.Table, report *etl.Report) *DatasetService {
	return &DatasetService{
		logger: internal.DefaultLogger.WithComponent("Dataset"),
		table:  table,
		report: report,
	}
}

// Load runs the source and replaces the held table
func (s *DatasetService) Load(ctx context.Context) error {
	if s.source == nil {
		return core.ErrEmptyTable
	}
	table, report, err := s.source.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.table = table
	s.report = report
	s.mu.Unlock()

	s.logger.Info("loaded %d observations across %d species", table.Len(), len(table.Species()))
	return nil
}

// Table returns the loaded table or ErrEmptyTable when nothing is loaded
func (s *DatasetService) Table() (*penguins.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}
	return s.table, nil
}

// Report returns the ETL report of the last load
func (s *DatasetService) Report() (*etl.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, core.ErrEmptyTable
	}
	return s.report, nil
}

// Species lists the species present in the table
func (s *DatasetService) Species() ([]string, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	return table.Species(), nil
}

// Describe summarizes every feature, optionally within one species
func (s *DatasetService) Describe(species string) ([]profiling.FeatureSummary, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	if species == "" {
		return profiling.DescribeTable(table)
	}
	return profiling.DescribeSpecies(table, species)
}

// GroupStats returns mean and std per (species, sex) group
func (s *DatasetService) GroupStats() ([]profiling.GroupStat, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	return profiling.GroupStats(table)
}

// Explore builds the exploratory views, zooming into one species
func (s *DatasetService) Explore(species string, bins int) (*profiling.Exploration, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	return profiling.Explore(table, species, bins)
}
