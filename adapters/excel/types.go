package excel

// RawRowData represents a row of raw spreadsheet data as header -> cell text
type RawRowData map[string]string

// ExcelData represents the complete raw dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}
