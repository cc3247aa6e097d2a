package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/adapters/excel"
	"gopenguins/internal/testkit"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path, err := testkit.NewTestKit().WriteRawCSV(t.TempDir(), 5)
	require.NoError(t, err)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := execute(t, "simulate", "--data", data,
		"--species", "Gentoo", "--feature", "body_mass_g",
		"--target", "5000", "--tolerance", "100", "--samples", "1000", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Species:        Gentoo")
	assert.Contains(t, out, "Band:           [4900, 5100]")
	assert.Contains(t, out, "Samples:        1000")
	assert.Contains(t, out, "Seed:           3")

	again, err := execute(t, "simulate", "--data", data,
		"--species", "Gentoo", "--feature", "body_mass_g",
		"--target", "5000", "--tolerance", "100", "--samples", "1000", "--seed", "3")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSimulateCommand_JSONAndCharts(t *testing.T) {
	data := writeDataset(t)
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "hist.png")
	htmlPath := filepath.Join(dir, "hist.html")

	out, err := execute(t, "simulate", "--data", data, "--species", "Chinstrap",
		"--samples", "10", "--seed", "9", "--json", "--png", pngPath, "--html", htmlPath)
	require.NoError(t, err)

	var result struct {
		Probability float64 `json:"probability"`
		Seed        int64   `json:"seed"`
		Samples     []float64
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, int64(9), result.Seed)
	assert.Empty(t, result.Samples)

	for _, p := range []string{pngPath, htmlPath} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestSimulateCommand_Errors(t *testing.T) {
	data := writeDataset(t)

	_, err := execute(t, "simulate", "--data", data, "--species", "Emperor")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "--data", data, "--tolerance", "0")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "--data", data, "--feature", "wingspan")
	assert.Error(t, err)

	_, err = execute(t, "simulate", "--data", filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)
}

func TestConvergeCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := execute(t, "converge", "--data", data, "--species", "Adelie",
		"--counts", "50,200", "--trials", "8", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "seed 5")
	assert.Contains(t, out, "      50       8")
	assert.Contains(t, out, "     200       8")
}

func TestDescribeCommand(t *testing.T) {
	data := writeDataset(t)

	out, err := execute(t, "describe", "--data", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Bill length (mm)")
	assert.Contains(t, out, "Gentoo")
	assert.Contains(t, out, "Female")

	_, err = execute(t, "describe", "--data", data, "--species", "Emperor")
	assert.Error(t, err)
}

func TestETLCommand_Export(t *testing.T) {
	data := writeDataset(t)
	outPath := filepath.Join(t.TempDir(), "clean.xlsx")

	out, err := execute(t, "etl", "--data", data, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "rows in:")
	assert.Contains(t, out, "dropped missing:")
	assert.Contains(t, out, "fingerprint:")
	assert.Contains(t, out, "wrote ")

	cleaned, err := excel.NewDataReader(outPath).ReadData()
	require.NoError(t, err)
	assert.Len(t, cleaned.Rows, 180)
}

func TestEDACommand(t *testing.T) {
	data := writeDataset(t)
	htmlPath := filepath.Join(t.TempDir(), "eda.html")

	out, err := execute(t, "eda", "--data", data, "--species", "Chinstrap", "--bins", "10", "--html", htmlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "correlation")
	assert.Contains(t, out, "flipper_length_mm")
	assert.Contains(t, out, "body mass by species")
	assert.Contains(t, out, "Chinstrap body mass by sex (10 bins)")

	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "heatmap")

	out, err = execute(t, "eda", "--data", data, "--json")
	require.NoError(t, err)
	var ex struct {
		Zoom struct {
			Species string `json:"species"`
		} `json:"zoom"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &ex))
	assert.Equal(t, "Adelie", ex.Zoom.Species)

	_, err = execute(t, "eda", "--data", data, "--species", "Emperor")
	assert.Error(t, err)
}
