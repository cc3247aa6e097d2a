package profiling

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
)

// FeatureSummary is the describe() output for one feature
type FeatureSummary struct {
	Feature penguins.Feature `json:"feature"`
	Label   string           `json:"label"`
	Summary Summary          `json:"summary"`
}

// DescribeTable summarizes every numeric feature across the whole table
func DescribeTable(table *penguins.Table) ([]FeatureSummary, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}
	out := make([]FeatureSummary, 0, len(penguins.Features()))
	for _, info := range penguins.Features() {
		s, err := Describe(table.Column(info.Feature))
		if err != nil {
			return nil, err
		}
		out = append(out, FeatureSummary{Feature: info.Feature, Label: info.Label, Summary: s})
	}
	return out, nil
}

// DescribeSpecies summarizes every feature within one species
func DescribeSpecies(table *penguins.Table, species string) ([]FeatureSummary, error) {
	if !table.HasSpecies(species) {
		return nil, core.NewNotFoundError(core.ErrUnknownSpecies, species)
	}
	return DescribeTable(table.Filter(species))
}

// MeanStd is a mean and sample standard deviation pair
type MeanStd struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
}

// GroupStat holds per-feature mean/std for one (species, sex) group
type GroupStat struct {
	Species  string                       `json:"species"`
	Sex      string                       `json:"sex"`
	Count    int                          `json:"count"`
	Features map[penguins.Feature]MeanStd `json:"features"`
}

// GroupStats computes mean and std of each feature grouped by species and sex,
// ordered by species then sex
func GroupStats(table *penguins.Table) ([]GroupStat, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}

	type key struct{ species, sex string }
	groups := make(map[key][]penguins.Observation)
	for _, o := range table.Rows() {
		k := key{o.Species, o.Sex}
		groups[k] = append(groups[k], o)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].species != keys[j].species {
			return keys[i].species < keys[j].species
		}
		return keys[i].sex < keys[j].sex
	})

	out := make([]GroupStat, 0, len(keys))
	for _, k := range keys {
		rows := groups[k]
		g := GroupStat{Species: k.species, Sex: k.sex, Count: len(rows), Features: make(map[penguins.Feature]MeanStd)}
		for _, info := range penguins.Features() {
			values := make([]float64, len(rows))
			for i, o := range rows {
				values[i], _ = o.Value(info.Feature)
			}
			ms := MeanStd{Mean: stat.Mean(values, nil)}
			if len(values) > 1 {
				ms.StdDev = stat.StdDev(values, nil)
			}
			g.Features[info.Feature] = ms
		}
		out = append(out, g)
	}
	return out, nil
}

// Rounded returns a copy with every mean and deviation rounded for display
func (g GroupStat) Rounded(places int) GroupStat {
	out := GroupStat{Species: g.Species, Sex: g.Sex, Count: g.Count, Features: make(map[penguins.Feature]MeanStd, len(g.Features))}
	for f, ms := range g.Features {
		out.Features[f] = MeanStd{Mean: round(ms.Mean, places), StdDev: round(ms.StdDev, places)}
	}
	return out
}
