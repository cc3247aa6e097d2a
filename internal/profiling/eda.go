package profiling

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
)

// DefaultEDABins is the bin count of the per-sex distribution
const DefaultEDABins = 20

// CorrelationMatrix holds pairwise Pearson correlations of the numeric columns.
// Values[i][j] is the correlation of Columns[i] and Columns[j].
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the correlation of two columns
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Rounded returns a copy with every coefficient rounded for display
func (m CorrelationMatrix) Rounded(places int) CorrelationMatrix {
	out := CorrelationMatrix{Columns: append([]string(nil), m.Columns...), Values: make([][]float64, len(m.Values))}
	for i, row := range m.Values {
		out.Values[i] = make([]float64, len(row))
		for j, v := range row {
			out.Values[i][j] = round(v, places)
		}
	}
	return out
}

// Correlation computes the Pearson correlation matrix of the numeric
// features, plus year when every row carries one. Constant columns are left
// out since their correlation is undefined.
func Correlation(table *penguins.Table) (CorrelationMatrix, error) {
	if table.Len() == 0 {
		return CorrelationMatrix{}, core.ErrEmptyTable
	}

	type column struct {
		name   string
		values []float64
	}
	var columns []column
	for _, info := range penguins.Features() {
		columns = append(columns, column{string(info.Feature), table.Column(info.Feature)})
	}
	if years, ok := yearColumn(table); ok {
		columns = append(columns, column{penguins.ColumnYear, years})
	}

	kept := columns[:0]
	for _, c := range columns {
		if stat.Variance(c.values, nil) > 0 {
			kept = append(kept, c)
		}
	}

	m := CorrelationMatrix{Columns: make([]string, len(kept)), Values: make([][]float64, len(kept))}
	for i, a := range kept {
		m.Columns[i] = a.name
		m.Values[i] = make([]float64, len(kept))
		for j, b := range kept {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			m.Values[i][j] = stat.Correlation(a.values, b.values, nil)
		}
	}
	return m, nil
}

func yearColumn(table *penguins.Table) ([]float64, bool) {
	rows := table.Rows()
	years := make([]float64, len(rows))
	for i, o := range rows {
		if o.Year == 0 {
			return nil, false
		}
		years[i] = float64(o.Year)
	}
	return years, true
}

// BoxStat is the five-number summary of a feature within one species
type BoxStat struct {
	Species string  `json:"species"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// Values returns min, q1, median, q3, max in box plot order
func (b BoxStat) Values() []float64 {
	return []float64{b.Min, b.Q1, b.Median, b.Q3, b.Max}
}

// Rounded returns the summary rounded for display
func (b BoxStat) Rounded(places int) BoxStat {
	b.Min, b.Q1, b.Median = round(b.Min, places), round(b.Q1, places), round(b.Median, places)
	b.Q3, b.Max = round(b.Q3, places), round(b.Max, places)
	return b
}

// BoxStats summarizes a feature per species, in species order
func BoxStats(table *penguins.Table, feature penguins.Feature) ([]BoxStat, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}
	if !feature.Valid() {
		return nil, core.NewNotFoundError(core.ErrUnknownFeature, string(feature))
	}
	var out []BoxStat
	for _, species := range table.Species() {
		values, err := table.Values(species, feature)
		if err != nil {
			return nil, err
		}
		s, err := Describe(values)
		if err != nil {
			return nil, err
		}
		out = append(out, BoxStat{
			Species: species, Count: s.Count,
			Min: s.Min, Q1: s.Q25, Median: s.Median, Q3: s.Q75, Max: s.Max,
		})
	}
	return out, nil
}

// Point is one observation projected onto two features
type Point struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Island string  `json:"island"`
}

// ScatterGroup holds the points of one (species, sex) group
type ScatterGroup struct {
	Species string  `json:"species"`
	Sex     string  `json:"sex"`
	Points  []Point `json:"points"`
}

// Name labels the group in a legend
func (g ScatterGroup) Name() string {
	return g.Species + " " + g.Sex
}

// Scatter projects every observation onto x and y, grouped by species and
// sex and ordered by species then sex
func Scatter(table *penguins.Table, x, y penguins.Feature) ([]ScatterGroup, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}
	for _, f := range []penguins.Feature{x, y} {
		if !f.Valid() {
			return nil, core.NewNotFoundError(core.ErrUnknownFeature, string(f))
		}
	}

	type key struct{ species, sex string }
	groups := make(map[key][]Point)
	for _, o := range table.Rows() {
		vx, _ := o.Value(x)
		vy, _ := o.Value(y)
		k := key{o.Species, o.Sex}
		groups[k] = append(groups[k], Point{X: vx, Y: vy, Island: o.Island})
	}

	out := make([]ScatterGroup, 0, len(groups))
	for k, points := range groups {
		out = append(out, ScatterGroup{Species: k.species, Sex: k.sex, Points: points})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Species != out[j].Species {
			return out[i].Species < out[j].Species
		}
		return out[i].Sex < out[j].Sex
	})
	return out, nil
}

// GroupedHistogram counts several groups over shared bin edges
type GroupedHistogram struct {
	Edges  []float64        `json:"edges"`
	Groups []HistogramGroup `json:"groups"`
}

// HistogramGroup is the bin counts of one group
type HistogramGroup struct {
	Name   string `json:"name"`
	Counts []int  `json:"counts"`
}

// HistogramBySex bins a feature of the table once per sex. Every sex shares
// the same edges so the bars line up.
func HistogramBySex(table *penguins.Table, feature penguins.Feature, bins int) (GroupedHistogram, error) {
	if table.Len() == 0 {
		return GroupedHistogram{}, core.ErrEmptyTable
	}
	if !feature.Valid() {
		return GroupedHistogram{}, core.NewNotFoundError(core.ErrUnknownFeature, string(feature))
	}
	if bins < 1 {
		return GroupedHistogram{}, core.NewInvalidParameterError("bins", fmt.Sprintf("must be >= 1, got %d", bins))
	}

	all := sortedCopy(table.Column(feature))
	edges := equalWidthEdges(all[0], all[len(all)-1], bins)

	bySex := make(map[string][]float64)
	for _, o := range table.Rows() {
		v, _ := o.Value(feature)
		bySex[o.Sex] = append(bySex[o.Sex], v)
	}
	sexes := make([]string, 0, len(bySex))
	for sex := range bySex {
		sexes = append(sexes, sex)
	}
	sort.Strings(sexes)

	out := GroupedHistogram{Edges: edges}
	for _, sex := range sexes {
		out.Groups = append(out.Groups, HistogramGroup{Name: sex, Counts: countBins(edges, sortedCopy(bySex[sex]))})
	}
	return out, nil
}

// SpeciesZoom looks inside one species
type SpeciesZoom struct {
	Species     string           `json:"species"`
	BillMass    []ScatterGroup   `json:"bill_vs_mass"`
	FlipperMass []ScatterGroup   `json:"flipper_vs_mass"`
	MassBySex   GroupedHistogram `json:"body_mass_by_sex"`
}

// Exploration gathers the exploratory views of the dataset: an overview
// across species and a zoom into one species
type Exploration struct {
	Correlation CorrelationMatrix `json:"correlation"`
	BodyMass    []BoxStat         `json:"body_mass_by_species"`
	FlipperMass []ScatterGroup    `json:"flipper_vs_mass"`
	BillMass    []ScatterGroup    `json:"bill_vs_mass"`
	Zoom        SpeciesZoom       `json:"zoom"`
}

// Explore builds the exploration for the table. An empty species zooms into
// the first one.
func Explore(table *penguins.Table, species string, bins int) (*Exploration, error) {
	if table.Len() == 0 {
		return nil, core.ErrEmptyTable
	}
	if species == "" {
		species = table.Species()[0]
	}
	if !table.HasSpecies(species) {
		return nil, core.NewNotFoundError(core.ErrUnknownSpecies, species)
	}

	var (
		ex  Exploration
		err error
	)
	if ex.Correlation, err = Correlation(table); err != nil {
		return nil, err
	}
	if ex.BodyMass, err = BoxStats(table, penguins.BodyMass); err != nil {
		return nil, err
	}
	if ex.FlipperMass, err = Scatter(table, penguins.FlipperLength, penguins.BodyMass); err != nil {
		return nil, err
	}
	if ex.BillMass, err = Scatter(table, penguins.BillLength, penguins.BodyMass); err != nil {
		return nil, err
	}

	sub := table.Filter(species)
	ex.Zoom.Species = species
	if ex.Zoom.BillMass, err = Scatter(sub, penguins.BillLength, penguins.BodyMass); err != nil {
		return nil, err
	}
	if ex.Zoom.FlipperMass, err = Scatter(sub, penguins.FlipperLength, penguins.BodyMass); err != nil {
		return nil, err
	}
	if ex.Zoom.MassBySex, err = HistogramBySex(sub, penguins.BodyMass, bins); err != nil {
		return nil, err
	}
	return &ex, nil
}
