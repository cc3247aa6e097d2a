package etl

import (
	"context"

	"gopenguins/adapters/excel"
	"gopenguins/domain/penguins"
	apperrors "gopenguins/internal/errors"
)

// FileSource extracts the dataset from a CSV or XLSX file and cleans it
type FileSource struct {
	File    excel.ExcelConfig
	Cleaner *Cleaner
}

// NewFileSource creates a source with the default cleaning rules
func NewFileSource(path string) *FileSource {
	return &FileSource{
		File:    excel.ExcelConfig{FilePath: path},
		Cleaner: NewCleaner(DefaultCleanerConfig()),
	}
}

// Load runs extract and transform once and returns the table and report
func (s *FileSource) Load(ctx context.Context) (*penguins.Table, *Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	raw, err := s.File.Reader().ReadData()
	if err != nil {
		return nil, nil, apperrors.DataLoadError(s.File.FilePath, err)
	}

	cleaner := s.Cleaner
	if cleaner == nil {
		cleaner = NewCleaner(DefaultCleanerConfig())
	}
	table, report, err := cleaner.Clean(raw)
	if err != nil {
		return nil, report, apperrors.Wrapf(err, "failed to clean %s", s.File.FilePath)
	}
	return table, report, nil
}
