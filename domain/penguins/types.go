package penguins

import (
	"fmt"
	"sort"
	"strings"

	"gopenguins/domain/core"
)

// Column names of the cleaned table
const (
	ColumnSpecies         = "species"
	ColumnIsland          = "island"
	ColumnSex             = "sex"
	ColumnBillLengthMM    = "bill_length_mm"
	ColumnBillDepthMM     = "bill_depth_mm"
	ColumnFlipperLengthMM = "flipper_length_mm"
	ColumnBodyMassG       = "body_mass_g"
	ColumnYear            = "year"
)

// CategoricalColumns lists the columns summarized with value counts
var CategoricalColumns = []string{ColumnSpecies, ColumnIsland, ColumnSex}

// Feature is one of the numeric morphological measurements
type Feature string

const (
	BillLength    Feature = ColumnBillLengthMM
	BillDepth     Feature = ColumnBillDepthMM
	FlipperLength Feature = ColumnFlipperLengthMM
	BodyMass      Feature = ColumnBodyMassG
)

// FeatureInfo carries display metadata for a feature
type FeatureInfo struct {
	Feature          Feature `json:"feature"`
	Label            string  `json:"label"`
	Unit             string  `json:"unit"`
	DefaultTolerance float64 `json:"default_tolerance"`
}

var featureCatalog = []FeatureInfo{
	{Feature: BillLength, Label: "Bill length (mm)", Unit: "mm", DefaultTolerance: 1.0},
	{Feature: BillDepth, Label: "Bill depth (mm)", Unit: "mm", DefaultTolerance: 1.0},
	{Feature: FlipperLength, Label: "Flipper length (mm)", Unit: "mm", DefaultTolerance: 1.0},
	{Feature: BodyMass, Label: "Body mass (g)", Unit: "g", DefaultTolerance: 50.0},
}

// Features returns the catalog in display order
func Features() []FeatureInfo {
	out := make([]FeatureInfo, len(featureCatalog))
	copy(out, featureCatalog)
	return out
}

// ParseFeature accepts a column name or a label, case-insensitively
func ParseFeature(s string) (Feature, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, info := range featureCatalog {
		if needle == string(info.Feature) || needle == strings.ToLower(info.Label) {
			return info.Feature, nil
		}
	}
	return "", core.NewNotFoundError(core.ErrUnknownFeature, s)
}

// Info returns the catalog entry for f
func (f Feature) Info() FeatureInfo {
	for _, info := range featureCatalog {
		if info.Feature == f {
			return info
		}
	}
	return FeatureInfo{Feature: f, Label: string(f), DefaultTolerance: 1.0}
}

// Valid reports whether f is a known feature
func (f Feature) Valid() bool {
	for _, info := range featureCatalog {
		if info.Feature == f {
			return true
		}
	}
	return false
}

func (f Feature) String() string { return string(f) }

// Observation is one individual penguin
type Observation struct {
	Species         string  `json:"species"`
	Island          string  `json:"island"`
	Sex             string  `json:"sex"`
	BillLengthMM    float64 `json:"bill_length_mm"`
	BillDepthMM     float64 `json:"bill_depth_mm"`
	FlipperLengthMM float64 `json:"flipper_length_mm"`
	BodyMassG       float64 `json:"body_mass_g"`
	Year            int     `json:"year,omitempty"`
}

// Value returns the measurement for f
func (o Observation) Value(f Feature) (float64, bool) {
	switch f {
	case BillLength:
		return o.BillLengthMM, true
	case BillDepth:
		return o.BillDepthMM, true
	case FlipperLength:
		return o.FlipperLengthMM, true
	case BodyMass:
		return o.BodyMassG, true
	default:
		return 0, false
	}
}

// Category returns the value of a categorical column
func (o Observation) Category(column string) (string, bool) {
	switch column {
	case ColumnSpecies:
		return o.Species, true
	case ColumnIsland:
		return o.Island, true
	case ColumnSex:
		return o.Sex, true
	default:
		return "", false
	}
}

// FeatureRange summarizes a feature within one subpopulation
type FeatureRange struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// Contains reports whether v lies inside the observed [Min, Max]
func (r FeatureRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Span is Max - Min
func (r FeatureRange) Span() float64 {
	return r.Max - r.Min
}

// ValueCount is one entry of a categorical frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Table is a read-only, cleaned collection of observations.
// It is built once by the ETL step and passed explicitly to consumers.
type Table struct {
	rows []Observation
}

// NewTable copies rows into a new table
func NewTable(rows []Observation) *Table {
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of observations
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the observations
func (t *Table) Rows() []Observation {
	out := make([]Observation, len(t.rows))
	copy(out, t.rows)
	return out
}

// Species returns the sorted distinct species
func (t *Table) Species() []string {
	seen := make(map[string]struct{})
	for _, o := range t.rows {
		seen[o.Species] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// HasSpecies reports whether any observation belongs to species
func (t *Table) HasSpecies(species string) bool {
	for _, o := range t.rows {
		if o.Species == species {
			return true
		}
	}
	return false
}

// Filter returns the subpopulation for one species
func (t *Table) Filter(species string) *Table {
	var rows []Observation
	for _, o := range t.rows {
		if o.Species == species {
			rows = append(rows, o)
		}
	}
	return &Table{rows: rows}
}

// Values returns the ordered feature values of one species
func (t *Table) Values(species string, f Feature) ([]float64, error) {
	if !f.Valid() {
		return nil, core.NewNotFoundError(core.ErrUnknownFeature, string(f))
	}
	var values []float64
	for _, o := range t.rows {
		if o.Species != species {
			continue
		}
		v, _ := o.Value(f)
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, core.NewNotFoundError(core.ErrUnknownSpecies, species)
	}
	return values, nil
}

// Column returns a feature across every observation
func (t *Table) Column(f Feature) []float64 {
	out := make([]float64, 0, len(t.rows))
	for _, o := range t.rows {
		v, _ := o.Value(f)
		out = append(out, v)
	}
	return out
}

// Range computes min, max and mean of a feature within one species
func (t *Table) Range(species string, f Feature) (FeatureRange, error) {
	values, err := t.Values(species, f)
	if err != nil {
		return FeatureRange{}, err
	}
	r := FeatureRange{Min: values[0], Max: values[0], Count: len(values)}
	sum := 0.0
	for _, v := range values {
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
		sum += v
	}
	r.Mean = sum / float64(len(values))
	return r, nil
}

// ValueCounts tallies a categorical column, most frequent first
func (t *Table) ValueCounts(column string) ([]ValueCount, error) {
	counts := make(map[string]int)
	for _, o := range t.rows {
		v, ok := o.Category(column)
		if !ok {
			return nil, fmt.Errorf("%w %q is not categorical", core.ErrColumnNotFound, column)
		}
		counts[v]++
	}
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}
