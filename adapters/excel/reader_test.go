package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataReader_DetectsType(t *testing.T) {
	assert.Equal(t, "csv", NewDataReader("penguins.csv").FileType())
	assert.Equal(t, "xlsx", NewDataReader("Penguins.XLSX").FileType())
	assert.Equal(t, "csv", NewDataReader("penguins.txt").FileType())
}

func TestReadCSV_TrimsAndToleratesShortRows(t *testing.T) {
	src := "\ufeff species , island\nAdelie , Dream\nGentoo\n"
	data, err := NewDataReader("x.csv").ReadCSV(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"species", "island"}, data.Headers)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "Dream", data.Rows[0]["island"])
	_, ok := data.Rows[1]["island"]
	assert.False(t, ok)
}

func TestReadData_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDataReader(filepath.Join(dir, "missing.csv")).ReadData()
	assert.Error(t, err)

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("species,island\n"), 0o644))
	_, err = NewDataReader(headerOnly).ReadData()
	assert.Error(t, err)
}

func TestWriteData_ExcelSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	data := &ExcelData{
		Headers: []string{"species", "body_mass_g"},
		Rows:    []RawRowData{{"species": "Gentoo", "body_mass_g": "5000"}},
	}
	require.NoError(t, WriteData(path, data))

	got, err := ExcelConfig{FilePath: path, Sheet: DefaultSheet}.Reader().ReadData()
	require.NoError(t, err)
	assert.Equal(t, data.Headers, got.Headers)
	assert.Equal(t, "5000", got.Rows[0]["body_mass_g"])

	assert.Error(t, WriteData(path, &ExcelData{}))
}
