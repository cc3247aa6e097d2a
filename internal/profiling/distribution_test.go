package profiling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{5, 1, 4, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Median)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.LessOrEqual(t, s.Min, s.Q25)
	assert.LessOrEqual(t, s.Q25, s.Median)
	assert.LessOrEqual(t, s.Median, s.Q75)
	assert.LessOrEqual(t, s.Q75, s.Max)
	assert.InDelta(t, 0, s.Skewness, 1e-12)
	assert.Zero(t, s.Outliers)
}

func TestDescribe_EdgeCases(t *testing.T) {
	s, err := Describe([]float64{42})
	require.NoError(t, err)
	assert.Equal(t, 42.0, s.Q25)
	assert.Equal(t, 42.0, s.Q75)
	assert.Zero(t, s.StdDev)

	_, err = Describe(nil)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)

	s, err = Describe([]float64{10, 10, 10, 10, 10, 10, 10, 100})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Outliers)
	assert.Greater(t, s.Skewness, 0.0)
}

func TestSummaryRounded(t *testing.T) {
	r := Summary{Mean: 3.14159, StdDev: 2.71828, Count: 3}.Rounded(2)
	assert.Equal(t, 3.14, r.Mean)
	assert.Equal(t, 2.72, r.StdDev)
	assert.Equal(t, 3, r.Count)
}

func TestBuildHistogram(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	h, err := BuildHistogram(data, 5)
	require.NoError(t, err)

	require.Len(t, h.Counts, 5)
	require.Len(t, h.Edges, 6)
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, len(data), total)
	// the max lands in the last bin
	assert.Equal(t, 4, h.BinOf(10))
	assert.Equal(t, 0, h.BinOf(0))
	assert.Equal(t, -1, h.BinOf(11))
}

func TestBuildHistogram_Degenerate(t *testing.T) {
	h, err := BuildHistogram([]float64{42, 42, 42}, 30)
	require.NoError(t, err)
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 3, total)

	_, err = BuildHistogram([]float64{1}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = BuildHistogram(nil, 3)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestGroupStats(t *testing.T) {
	table := penguins.NewTable([]penguins.Observation{
		{Species: "Gentoo", Sex: "Male", BodyMassG: 5500, BillLengthMM: 49},
		{Species: "Adelie", Sex: "Female", BodyMassG: 3300, BillLengthMM: 37},
		{Species: "Adelie", Sex: "Female", BodyMassG: 3500, BillLengthMM: 39},
		{Species: "Adelie", Sex: "Male", BodyMassG: 4000, BillLengthMM: 40},
	})

	groups, err := GroupStats(table)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "Adelie", groups[0].Species)
	assert.Equal(t, "Female", groups[0].Sex)
	assert.Equal(t, 2, groups[0].Count)
	assert.Equal(t, 3400.0, groups[0].Features[penguins.BodyMass].Mean)
	assert.InDelta(t, math.Sqrt(20000), groups[0].Features[penguins.BodyMass].StdDev, 1e-9)
	assert.Zero(t, groups[2].Features[penguins.BodyMass].StdDev)
	assert.Equal(t, "Gentoo", groups[2].Species)

	_, err = GroupStats(penguins.NewTable(nil))
	assert.ErrorIs(t, err, core.ErrEmptyTable)
}

func TestDescribeSpecies(t *testing.T) {
	table := penguins.NewTable([]penguins.Observation{
		{Species: "Adelie", BodyMassG: 3300},
		{Species: "Gentoo", BodyMassG: 5500},
	})
	out, err := DescribeSpecies(table, "Gentoo")
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, penguins.BodyMass, out[3].Feature)
	assert.Equal(t, 5500.0, out[3].Summary.Mean)

	_, err = DescribeSpecies(table, "Emperor")
	assert.ErrorIs(t, err, core.ErrUnknownSpecies)
}

func TestGroupStatRounded(t *testing.T) {
	g := GroupStat{Species: "Adelie", Sex: "Male", Count: 2, Features: map[penguins.Feature]MeanStd{
		penguins.BillLength: {Mean: 39.04999, StdDev: 1.23456},
	}}
	r := g.Rounded(2)
	assert.Equal(t, 39.05, r.Features[penguins.BillLength].Mean)
	assert.Equal(t, 1.23, r.Features[penguins.BillLength].StdDev)
	assert.Equal(t, 39.04999, g.Features[penguins.BillLength].Mean)
}
