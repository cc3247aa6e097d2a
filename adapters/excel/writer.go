package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name written by WriteData
const DefaultSheet = "penguins_clean"

// WriteData stores data as .xlsx or .csv depending on the extension
func WriteData(path string, data *ExcelData) error {
	if data == nil || len(data.Headers) == 0 {
		return fmt.Errorf("nothing to write")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeExcel(path, data)
	default:
		return writeCSV(path, data)
	}
}

func writeExcel(path string, data *ExcelData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(data.Headers))
	for i, h := range data.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range data.Rows {
		cells := make([]interface{}, len(data.Headers))
		for j, h := range data.Headers {
			cells[j] = row[h]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, data *ExcelData) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(data.Headers); err != nil {
		return err
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for j, h := range data.Headers {
			record[j] = row[h]
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
