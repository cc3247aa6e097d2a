package excel

// ExcelConfig holds configuration for a CSV or XLSX data file
type ExcelConfig struct {
	FilePath string `json:"file_path"`
	Sheet    string `json:"sheet"`
}

// Reader builds a DataReader for the configured file
func (c ExcelConfig) Reader() *DataReader {
	return NewDataReader(c.FilePath).WithSheet(c.Sheet)
}
