package etl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopenguins/adapters/excel"
	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/internal"
)

// RequiredColumns must be present after header normalization
var RequiredColumns = []string{
	penguins.ColumnSpecies,
	penguins.ColumnIsland,
	penguins.ColumnSex,
	penguins.ColumnBillLengthMM,
	penguins.ColumnBillDepthMM,
	penguins.ColumnFlipperLengthMM,
	penguins.ColumnBodyMassG,
}

// CleanerConfig controls which cells count as missing
type CleanerConfig struct {
	MissingTokens []string `json:"missing_tokens"`
}

// DefaultCleanerConfig treats the usual NA spellings as missing
func DefaultCleanerConfig() CleanerConfig {
	return CleanerConfig{
		MissingTokens: []string{"", "na", "nan", "null", "none", "."},
	}
}

// Report summarizes one cleaning pass
type Report struct {
	RowsIn         int                              `json:"rows_in"`
	RowsOut        int                              `json:"rows_out"`
	DroppedMissing int                              `json:"dropped_missing"`
	DroppedInvalid int                              `json:"dropped_invalid"`
	Columns        []string                         `json:"columns"`
	NonNullCounts  map[string]int                   `json:"non_null_counts"`
	ValueCounts    map[string][]penguins.ValueCount `json:"value_counts"`
	Fingerprint    core.Hash                        `json:"fingerprint"`
}

// Cleaner turns raw rows into a typed, complete observation table
type Cleaner struct {
	config  CleanerConfig
	missing map[string]struct{}
	logger  *internal.Logger
}

// NewCleaner creates a cleaner with the given config
func NewCleaner(config CleanerConfig) *Cleaner {
	missing := make(map[string]struct{}, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[strings.ToLower(strings.TrimSpace(tok))] = struct{}{}
	}
	return &Cleaner{
		config:  config,
		missing: missing,
		logger:  internal.DefaultLogger.WithComponent("ETL"),
	}
}

// NormalizeHeader trims and lowercases a column name
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func (c *Cleaner) isMissing(cell string) bool {
	_, ok := c.missing[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// Clean drops every row with a missing or unparseable value in the known
// columns and returns the typed table together with a report
func (c *Cleaner) Clean(raw *excel.ExcelData) (*penguins.Table, *Report, error) {
	if raw == nil || len(raw.Rows) == 0 {
		return nil, nil, core.ErrEmptyTable
	}

	// normalized name -> original header
	headerOf := make(map[string]string, len(raw.Headers))
	columns := make([]string, 0, len(raw.Headers))
	for _, h := range raw.Headers {
		n := NormalizeHeader(h)
		if _, dup := headerOf[n]; dup {
			return nil, nil, fmt.Errorf("duplicate column %q after normalization", n)
		}
		headerOf[n] = h
		columns = append(columns, n)
	}
	for _, col := range RequiredColumns {
		if _, ok := headerOf[col]; !ok {
			return nil, nil, fmt.Errorf("%w %q", core.ErrColumnNotFound, col)
		}
	}
	_, hasYear := headerOf[penguins.ColumnYear]

	report := &Report{
		RowsIn:        len(raw.Rows),
		Columns:       columns,
		NonNullCounts: make(map[string]int, len(columns)),
		ValueCounts:   make(map[string][]penguins.ValueCount),
	}

	known := RequiredColumns
	if hasYear {
		known = append(append([]string{}, RequiredColumns...), penguins.ColumnYear)
	}

	rows := make([]penguins.Observation, 0, len(raw.Rows))
	for i, row := range raw.Rows {
		for _, col := range columns {
			if cell, ok := row[headerOf[col]]; ok && !c.isMissing(cell) {
				report.NonNullCounts[col]++
			}
		}

		complete := true
		for _, col := range known {
			cell, ok := row[headerOf[col]]
			if !ok || c.isMissing(cell) {
				complete = false
				break
			}
		}
		if !complete {
			report.DroppedMissing++
			continue
		}

		obs, err := c.parseRow(row, headerOf, hasYear)
		if err != nil {
			c.logger.Debug("dropping row %d: %v", i+2, err)
			report.DroppedInvalid++
			continue
		}
		rows = append(rows, obs)
	}

	table := penguins.NewTable(rows)
	report.RowsOut = table.Len()
	if table.Len() == 0 {
		return nil, report, core.ErrEmptyTable
	}

	for _, col := range penguins.CategoricalColumns {
		counts, err := table.ValueCounts(col)
		if err != nil {
			return nil, report, err
		}
		report.ValueCounts[col] = counts
	}
	report.Fingerprint = Fingerprint(table)

	c.logger.Info("cleaned %d rows -> %d (missing=%d invalid=%d)",
		report.RowsIn, report.RowsOut, report.DroppedMissing, report.DroppedInvalid)
	return table, report, nil
}

func (c *Cleaner) parseRow(row excel.RawRowData, headerOf map[string]string, hasYear bool) (penguins.Observation, error) {
	cell := func(col string) string { return strings.TrimSpace(row[headerOf[col]]) }

	obs := penguins.Observation{
		Species: cell(penguins.ColumnSpecies),
		Island:  cell(penguins.ColumnIsland),
		Sex:     cell(penguins.ColumnSex),
	}

	numeric := []struct {
		col string
		dst *float64
	}{
		{penguins.ColumnBillLengthMM, &obs.BillLengthMM},
		{penguins.ColumnBillDepthMM, &obs.BillDepthMM},
		{penguins.ColumnFlipperLengthMM, &obs.FlipperLengthMM},
		{penguins.ColumnBodyMassG, &obs.BodyMassG},
	}
	for _, n := range numeric {
		v, err := strconv.ParseFloat(cell(n.col), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return obs, fmt.Errorf("column %s: %q is not a number", n.col, cell(n.col))
		}
		*n.dst = v
	}

	if hasYear {
		y, err := strconv.ParseFloat(cell(penguins.ColumnYear), 64)
		if err != nil || y != math.Trunc(y) {
			return obs, fmt.Errorf("column year: %q is not an integer", cell(penguins.ColumnYear))
		}
		obs.Year = int(y)
	}
	return obs, nil
}

// Fingerprint hashes the cleaned rows in order. Two loads of the same data
// yield the same fingerprint, so a seed plus a fingerprint pins a run.
func Fingerprint(table *penguins.Table) core.Hash {
	var b strings.Builder
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, o := range table.Rows() {
		b.WriteString(strings.Join([]string{
			o.Species, o.Island, o.Sex,
			format(o.BillLengthMM), format(o.BillDepthMM),
			format(o.FlipperLengthMM), format(o.BodyMassG),
			strconv.Itoa(o.Year),
		}, "\x1f"))
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}

// ToExcelData renders a cleaned table back into raw rows for export.
// The year column is written only when the table carries years.
func ToExcelData(table *penguins.Table) *excel.ExcelData {
	rows := table.Rows()
	withYear := false
	for _, o := range rows {
		if o.Year != 0 {
			withYear = true
			break
		}
	}

	headers := append([]string{}, RequiredColumns...)
	if withYear {
		headers = append(headers, penguins.ColumnYear)
	}
	out := &excel.ExcelData{Headers: headers, Rows: make([]excel.RawRowData, 0, len(rows))}
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, o := range rows {
		row := excel.RawRowData{
			penguins.ColumnSpecies:         o.Species,
			penguins.ColumnIsland:          o.Island,
			penguins.ColumnSex:             o.Sex,
			penguins.ColumnBillLengthMM:    format(o.BillLengthMM),
			penguins.ColumnBillDepthMM:     format(o.BillDepthMM),
			penguins.ColumnFlipperLengthMM: format(o.FlipperLengthMM),
			penguins.ColumnBodyMassG:       format(o.BodyMassG),
		}
		if withYear {
			row[penguins.ColumnYear] = strconv.Itoa(o.Year)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
