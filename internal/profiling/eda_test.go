package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/internal/testkit"
)

func edaTable() *penguins.Table {
	return penguins.NewTable([]penguins.Observation{
		{Species: "Adelie", Island: "Dream", Sex: "Female", BillLengthMM: 36, BillDepthMM: 18, FlipperLengthMM: 185, BodyMassG: 3300, Year: 2007},
		{Species: "Adelie", Island: "Dream", Sex: "Male", BillLengthMM: 40, BillDepthMM: 19, FlipperLengthMM: 195, BodyMassG: 4000, Year: 2008},
		{Species: "Adelie", Island: "Biscoe", Sex: "Male", BillLengthMM: 41, BillDepthMM: 19.5, FlipperLengthMM: 197, BodyMassG: 4200, Year: 2009},
		{Species: "Gentoo", Island: "Biscoe", Sex: "Female", BillLengthMM: 45, BillDepthMM: 14, FlipperLengthMM: 212, BodyMassG: 4700, Year: 2007},
		{Species: "Gentoo", Island: "Biscoe", Sex: "Male", BillLengthMM: 49, BillDepthMM: 15.5, FlipperLengthMM: 222, BodyMassG: 5600, Year: 2009},
	})
}

func TestCorrelation(t *testing.T) {
	m, err := Correlation(edaTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g", "year"}, m.Columns)
	require.Len(t, m.Values, 5)
	for i := range m.Columns {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Columns {
			assert.InDelta(t, m.Values[i][j], m.Values[j][i], 1e-12)
			assert.LessOrEqual(t, m.Values[i][j], 1.0+1e-12)
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0-1e-12)
		}
	}

	flipperMass, ok := m.At("flipper_length_mm", "body_mass_g")
	require.True(t, ok)
	assert.Greater(t, flipperMass, 0.9)
	billDepth, ok := m.At("bill_depth_mm", "flipper_length_mm")
	require.True(t, ok)
	assert.Less(t, billDepth, 0.0)

	_, ok = m.At("wingspan", "year")
	assert.False(t, ok)

	rounded := m.Rounded(2)
	assert.Equal(t, round(flipperMass, 2), rounded.Values[2][3])
}

func TestCorrelation_DropsConstantColumns(t *testing.T) {
	// the generator stamps one year on every row
	m, err := Correlation(testkit.NewTestKit().Table())
	require.NoError(t, err)
	assert.NotContains(t, m.Columns, penguins.ColumnYear)
	assert.Len(t, m.Columns, len(penguins.Features()))

	_, err = Correlation(penguins.NewTable(nil))
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestBoxStats(t *testing.T) {
	boxes, err := BoxStats(edaTable(), penguins.BodyMass)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	adelie := boxes[0]
	assert.Equal(t, "Adelie", adelie.Species)
	assert.Equal(t, 3, adelie.Count)
	assert.Equal(t, []float64{3300, adelie.Q1, 4000, adelie.Q3, 4200}, adelie.Values())
	assert.LessOrEqual(t, adelie.Q1, adelie.Median)
	assert.LessOrEqual(t, adelie.Median, adelie.Q3)
	assert.Equal(t, round(adelie.Q1, 0), adelie.Rounded(0).Q1)

	_, err = BoxStats(edaTable(), penguins.Feature("wingspan"))
	assert.ErrorIs(t, err, core.ErrUnknownFeature)
}

func TestScatter_GroupsBySpeciesAndSex(t *testing.T) {
	groups, err := Scatter(edaTable(), penguins.FlipperLength, penguins.BodyMass)
	require.NoError(t, err)

	names := make([]string, len(groups))
	total := 0
	for i, g := range groups {
		names[i] = g.Name()
		total += len(g.Points)
	}
	assert.Equal(t, []string{"Adelie Female", "Adelie Male", "Gentoo Female", "Gentoo Male"}, names)
	assert.Equal(t, 5, total)
	assert.Equal(t, Point{X: 185, Y: 3300, Island: "Dream"}, groups[0].Points[0])
}

func TestHistogramBySex(t *testing.T) {
	table := testkit.NewTestKit().Table().Filter("Gentoo")
	hist, err := HistogramBySex(table, penguins.BodyMass, DefaultEDABins)
	require.NoError(t, err)

	assert.Len(t, hist.Edges, DefaultEDABins+1)
	require.Len(t, hist.Groups, 2)
	assert.Equal(t, "Female", hist.Groups[0].Name)
	assert.Equal(t, "Male", hist.Groups[1].Name)

	total := 0
	for _, g := range hist.Groups {
		assert.Len(t, g.Counts, DefaultEDABins)
		for _, c := range g.Counts {
			total += c
		}
	}
	assert.Equal(t, table.Len(), total)

	_, err = HistogramBySex(table, penguins.BodyMass, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestExplore(t *testing.T) {
	table := testkit.NewTestKit().Table()

	ex, err := Explore(table, "", DefaultEDABins)
	require.NoError(t, err)
	assert.Equal(t, "Adelie", ex.Zoom.Species)
	assert.Len(t, ex.BodyMass, 3)
	assert.Len(t, ex.FlipperMass, 6)
	assert.Len(t, ex.BillMass, 6)
	for _, g := range ex.Zoom.BillMass {
		assert.Equal(t, "Adelie", g.Species)
	}
	assert.Len(t, ex.Zoom.MassBySex.Groups, 2)

	ex, err = Explore(table, "Chinstrap", 10)
	require.NoError(t, err)
	assert.Equal(t, "Chinstrap", ex.Zoom.Species)
	assert.Len(t, ex.Zoom.MassBySex.Edges, 11)

	_, err = Explore(table, "Emperor", DefaultEDABins)
	assert.ErrorIs(t, err, core.ErrUnknownSpecies)
}
