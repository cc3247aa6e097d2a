package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"gopenguins/domain/penguins"
)

// PenguinGeneratorConfig configures the synthetic penguin generator
type PenguinGeneratorConfig struct {
	PerSpecies int   `json:"per_species"`
	Seed       int64 `json:"seed"`
	Year       int   `json:"year"`
}

// DefaultPenguinConfig returns sensible defaults for penguin generation
func DefaultPenguinConfig() PenguinGeneratorConfig {
	return PenguinGeneratorConfig{
		PerSpecies: 60,
		Seed:       42,
		Year:       2008,
	}
}

type speciesProfile struct {
	name          string
	islands       []string
	billLength    [2]float64 // mean, sd
	billDepth     [2]float64
	flipperLength [2]float64
	bodyMass      [2]float64
}

// per-species means and spreads close to the published Palmer measurements
var speciesProfiles = []speciesProfile{
	{"Adelie", []string{"Torgersen", "Biscoe", "Dream"}, [2]float64{38.8, 2.7}, [2]float64{18.3, 1.2}, [2]float64{190, 6.5}, [2]float64{3700, 460}},
	{"Chinstrap", []string{"Dream"}, [2]float64{48.8, 3.3}, [2]float64{18.4, 1.1}, [2]float64{196, 7.1}, [2]float64{3733, 384}},
	{"Gentoo", []string{"Biscoe"}, [2]float64{47.5, 3.1}, [2]float64{15.0, 1.0}, [2]float64{217, 6.5}, [2]float64{5076, 504}},
}

// PenguinDataGenerator generates plausible penguin observations
type PenguinDataGenerator struct {
	config PenguinGeneratorConfig
	rng    *rand.Rand
}

// NewPenguinDataGenerator creates a new generator
func NewPenguinDataGenerator(config PenguinGeneratorConfig) *PenguinDataGenerator {
	return &PenguinDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns PerSpecies observations for each species, in species order
func (g *PenguinDataGenerator) Generate() []penguins.Observation {
	out := make([]penguins.Observation, 0, g.config.PerSpecies*len(speciesProfiles))
	for _, p := range speciesProfiles {
		for i := 0; i < g.config.PerSpecies; i++ {
			sex := "Male"
			if i%2 == 1 {
				sex = "Female"
			}
			out = append(out, penguins.Observation{
				Species:         p.name,
				Island:          p.islands[i%len(p.islands)],
				Sex:             sex,
				BillLengthMM:    roundTo(g.normal(p.billLength), 0.1),
				BillDepthMM:     roundTo(g.normal(p.billDepth), 0.1),
				FlipperLengthMM: roundTo(g.normal(p.flipperLength), 1),
				BodyMassG:       roundTo(g.normal(p.bodyMass), 25),
				Year:            g.config.Year,
			})
		}
	}
	return out
}

// Table wraps Generate into a cleaned table
func (g *PenguinDataGenerator) Table() *penguins.Table {
	return penguins.NewTable(g.Generate())
}

// RawCSV renders the observations as a messy source file: upper-case padded
// headers, plus missingRows rows with NA cells and one row with garbage numbers
func (g *PenguinDataGenerator) RawCSV(missingRows int) string {
	var b strings.Builder
	b.WriteString(" Species ,Island,SEX,Bill_Length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,year\n")
	for _, o := range g.Generate() {
		fmt.Fprintf(&b, "%s,%s,%s,%g,%g,%g,%g,%d\n",
			o.Species, o.Island, o.Sex, o.BillLengthMM, o.BillDepthMM, o.FlipperLengthMM, o.BodyMassG, o.Year)
	}
	for i := 0; i < missingRows; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "Adelie,Torgersen,NA,38.1,18.0,190,3700,%d\n", g.config.Year)
		} else {
			fmt.Fprintf(&b, "Gentoo,Biscoe,Female,,,,,%d\n", g.config.Year)
		}
	}
	fmt.Fprintf(&b, "Chinstrap,Dream,Male,forty,18.1,195,3800,%d\n", g.config.Year)
	return b.String()
}

func (g *PenguinDataGenerator) normal(ms [2]float64) float64 {
	return ms[0] + ms[1]*g.rng.NormFloat64()
}

func roundTo(v, step float64) float64 {
	r := math.Round(v/step) * step
	// keep one decimal clean for mm values
	return math.Round(r*10) / 10
}
