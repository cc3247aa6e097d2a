package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gopenguins/adapters/excel"
	"gopenguins/app"
	"gopenguins/domain/penguins"
	"gopenguins/domain/simulation"
	"gopenguins/internal"
	"gopenguins/internal/config"
	"gopenguins/internal/container"
	"gopenguins/internal/etl"
	"gopenguins/internal/profiling"
	"gopenguins/ports"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataFile string
	sheet    string
	decimals int
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "gopenguins",
		Short:         "Monte Carlo probability estimates over the Palmer penguins dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.logLevel != "" {
				internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(opts.logLevel))
			}
			internal.DefaultLogger.SetOutput(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "CSV or XLSX dataset (default $DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.sheet, "sheet", "", "Worksheet to read from an XLSX file")
	rootCmd.PersistentFlags().IntVar(&opts.decimals, "decimals", 2, "Decimal places for displayed values")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (default $LOG_LEVEL)")

	rootCmd.AddCommand(
		newSimulateCmd(opts),
		newConvergeCmd(opts),
		newDescribeCmd(opts),
		newEDACmd(opts),
		newETLCmd(opts),
	)
	return rootCmd
}

// loadContainer reads the dataset and builds the services. Sample bounds are
// lifted on the command line; the estimator itself accepts any positive count.
func loadContainer(ctx context.Context, opts *rootOptions) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataFile != "" {
		cfg.Data.File = opts.dataFile
	}
	if opts.sheet != "" {
		cfg.Data.Sheet = opts.sheet
	}
	cfg.Simulation.MinSamples = 1
	cfg.Simulation.MaxSamples = 0

	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		species   string
		feature   string
		target    float64
		tolerance float64
		samples   int
		seed      int64
		asJSON    bool
		pngPath   string
		htmlPath  string
		bins      int
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Estimate the probability that a measurement falls near a target",
		Long: `Resample the observed values of one species and feature with replacement and
report the fraction of draws within [target-tolerance, target+tolerance].

Example: gopenguins simulate --data penguins.csv --species Adelie --feature bill_length_mm --target 39 --tolerance 1 --samples 5000 --seed 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			f, err := penguins.ParseFeature(feature)
			if err != nil {
				return err
			}
			prep, err := c.Simulations.Prepare(species, f)
			if err != nil {
				return err
			}

			req := prep.Request
			if cmd.Flags().Changed("target") {
				req.Target = target
			}
			if cmd.Flags().Changed("tolerance") {
				req.Tolerance = tolerance
			}
			if cmd.Flags().Changed("samples") {
				req.Samples = samples
			}

			result, err := c.Simulations.Run(cmd.Context(), req, seed)
			if err != nil {
				return err
			}

			if pngPath != "" {
				if err := writeChart(pngPath, c.Static, result, bins); err != nil {
					return err
				}
			}
			if htmlPath != "" {
				if err := writeChart(htmlPath, c.Interactive, result, bins); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				summary := *result
				summary.Samples = nil
				return writeJSON(out, summary)
			}
			printResult(out, prep, result, opts.decimals)
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "Adelie", "Species to sample from")
	cmd.Flags().StringVar(&feature, "feature", string(penguins.BillLength), "Feature column or label")
	cmd.Flags().Float64Var(&target, "target", 0, "Target value (default: the species mean)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Half-width of the band (default: per feature)")
	cmd.Flags().IntVar(&samples, "samples", 5000, "Number of resampled draws")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed; 0 picks one and reports it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG histogram to this path")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write an interactive HTML histogram to this path")
	cmd.Flags().IntVar(&bins, "bins", 30, "Histogram bins")

	return cmd
}

func newConvergeCmd(opts *rootOptions) *cobra.Command {
	var (
		species   string
		feature   string
		target    float64
		tolerance float64
		counts    []int
		trials    int
		seed      int64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "converge",
		Short: "Show how the estimate's spread shrinks as the sample count grows",
		Long: `Repeat the estimate many times at each sample count and report the mean and
standard deviation of the estimates next to the theoretical standard error.

Example: gopenguins converge --species Gentoo --feature body_mass_g --target 5000 --tolerance 100 --counts 100,400,1600 --trials 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			f, err := penguins.ParseFeature(feature)
			if err != nil {
				return err
			}
			prep, err := c.Simulations.Prepare(species, f)
			if err != nil {
				return err
			}
			req := app.StudyRequest{
				Species:      species,
				Feature:      f,
				Target:       prep.Request.Target,
				Tolerance:    prep.Request.Tolerance,
				SampleCounts: counts,
				Trials:       trials,
			}
			if cmd.Flags().Changed("target") {
				req.Target = target
			}
			if cmd.Flags().Changed("tolerance") {
				req.Tolerance = tolerance
			}

			report, err := c.Simulations.Study(cmd.Context(), req, seed)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, report)
			}
			printConvergence(out, report)
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "Adelie", "Species to sample from")
	cmd.Flags().StringVar(&feature, "feature", string(penguins.BillLength), "Feature column or label")
	cmd.Flags().Float64Var(&target, "target", 0, "Target value (default: the species mean)")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Half-width of the band (default: per feature)")
	cmd.Flags().IntSliceVar(&counts, "counts", []int{100, 400, 1600, 6400}, "Sample counts to study")
	cmd.Flags().IntVar(&trials, "trials", 100, "Repetitions per sample count")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed; 0 picks one and reports it")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var species string

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print descriptive statistics of every measurement",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			summaries, err := c.Dataset.Describe(species)
			if err != nil {
				return err
			}
			groups, err := c.Dataset.GroupStats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-22s %6s %9s %9s %9s %9s %9s %9s %9s\n",
				"feature", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
			for _, fs := range summaries {
				s := fs.Summary.Rounded(opts.decimals)
				fmt.Fprintf(out, "%-22s %6d %9g %9g %9g %9g %9g %9g %9g\n",
					fs.Label, s.Count, s.Mean, s.StdDev, s.Min, s.Q25, s.Median, s.Q75, s.Max)
			}

			fmt.Fprintf(out, "\nmean ± std by species and sex\n")
			for _, g := range groups {
				g = g.Rounded(opts.decimals)
				parts := make([]string, 0, len(penguins.Features()))
				for _, info := range penguins.Features() {
					ms := g.Features[info.Feature]
					parts = append(parts, fmt.Sprintf("%s %g ± %g", info.Feature, ms.Mean, ms.StdDev))
				}
				fmt.Fprintf(out, "%-10s %-7s n=%-4d %s\n", g.Species, g.Sex, g.Count, strings.Join(parts, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "Restrict the summary to one species")
	return cmd
}

func newEDACmd(opts *rootOptions) *cobra.Command {
	var (
		species  string
		bins     int
		htmlPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "eda",
		Short: "Print correlations and body mass quartiles, optionally rendering the charts",
		Long: `Explore the cleaned dataset: the correlation matrix of the numeric variables,
body mass quartiles per species and, with --html, a page of box, scatter,
heatmap and per-sex histogram charts zoomed into one species.

Example: gopenguins eda --species Gentoo --html eda.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ex, err := c.Dataset.Explore(species, bins)
			if err != nil {
				return err
			}

			if htmlPath != "" {
				f, err := os.Create(htmlPath)
				if err != nil {
					return err
				}
				if err := c.Explorer.RenderExploration(f, ex, opts.decimals); err != nil {
					f.Close()
					return fmt.Errorf("failed to render %s: %w", htmlPath, err)
				}
				if err := f.Close(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, ex)
			}
			printExploration(out, ex, opts.decimals)
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "Species to zoom into (default: the first)")
	cmd.Flags().IntVar(&bins, "bins", profiling.DefaultEDABins, "Bins of the per-sex body mass histogram")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write the interactive charts to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the exploration as JSON")
	return cmd
}

func newETLCmd(opts *rootOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Clean the dataset and report what was dropped",
		Long: `Normalize headers, drop rows with missing or unparseable values and print the
cleaning report. With --out the cleaned table is written as CSV or XLSX.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer(cmd.Context(), opts)
			if err != nil {
				return err
			}
			report, err := c.Dataset.Report()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, report)

			if outPath != "" {
				table, err := c.Dataset.Table()
				if err != nil {
					return err
				}
				if err := excel.WriteData(outPath, etl.ToExcelData(table)); err != nil {
					return err
				}
				fmt.Fprintf(out, "\nwrote %d rows to %s\n", table.Len(), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Write the cleaned table to this .csv or .xlsx path")
	return cmd
}

func writeChart(path string, renderer ports.ChartRenderer, result *simulation.Result, bins int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderer.RenderHistogram(f, result, bins); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printResult(w io.Writer, prep *app.Preparation, r *simulation.Result, decimals int) {
	req := r.Request
	fmt.Fprintf(w, "Species:        %s\n", req.Species)
	fmt.Fprintf(w, "Feature:        %s\n", prep.Feature.Label)
	fmt.Fprintf(w, "Observed:       %g to %g (mean %g, n=%d)\n",
		simulation.Round(r.Range.Min, decimals), simulation.Round(r.Range.Max, decimals),
		simulation.Round(r.Range.Mean, decimals), r.Range.Count)
	fmt.Fprintf(w, "Band:           [%g, %g]\n", simulation.Round(req.Lower(), decimals), simulation.Round(req.Upper(), decimals))
	fmt.Fprintf(w, "Samples:        %d (%d in band)\n", len(r.Samples), r.Matches)
	fmt.Fprintf(w, "Probability:    %g%%\n", r.RoundedPercent(decimals))
	fmt.Fprintf(w, "95%% interval:   [%g%%, %g%%]\n",
		simulation.Round(r.ConfidenceLow*100, decimals), simulation.Round(r.ConfidenceHigh*100, decimals))
	fmt.Fprintf(w, "Observed share: %g%%\n", simulation.Round(r.ExactFraction*100, decimals))
	fmt.Fprintf(w, "Seed:           %d\n", r.Seed)
	if r.OutOfRange {
		fmt.Fprintf(w, "warning: target lies outside the observed range\n")
	}
}

func printConvergence(w io.Writer, report *simulation.ConvergenceReport) {
	req := report.Request
	fmt.Fprintf(w, "%s %s in [%g, %g], observed share %.4f, seed %d\n",
		req.Species, req.Feature, req.Lower(), req.Upper(), report.ExactFraction, report.Seed)
	fmt.Fprintf(w, "%8s %7s %10s %10s %10s\n", "samples", "trials", "mean", "std", "sqrt(pq/n)")
	for _, p := range report.Points {
		fmt.Fprintf(w, "%8d %7d %10.4f %10.4f %10.4f\n", p.Samples, p.Trials, p.Mean, p.StdDev, p.TheoreticalSE)
	}
}

func printExploration(w io.Writer, ex *profiling.Exploration, decimals int) {
	m := ex.Correlation.Rounded(decimals)
	fmt.Fprintf(w, "%-18s", "correlation")
	for _, col := range m.Columns {
		fmt.Fprintf(w, " %18s", col)
	}
	fmt.Fprintln(w)
	for i, row := range m.Values {
		fmt.Fprintf(w, "%-18s", m.Columns[i])
		for _, v := range row {
			fmt.Fprintf(w, " %18g", v)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\nbody mass by species\n")
	for _, b := range ex.BodyMass {
		b = b.Rounded(decimals)
		fmt.Fprintf(w, "%-10s n=%-4d min %g  q1 %g  median %g  q3 %g  max %g\n",
			b.Species, b.Count, b.Min, b.Q1, b.Median, b.Q3, b.Max)
	}

	fmt.Fprintf(w, "\n%s body mass by sex (%d bins)\n", ex.Zoom.Species, len(ex.Zoom.MassBySex.Edges)-1)
	for _, g := range ex.Zoom.MassBySex.Groups {
		total := 0
		for _, n := range g.Counts {
			total += n
		}
		fmt.Fprintf(w, "  %-8s %d\n", g.Name, total)
	}
}

func printReport(w io.Writer, report *etl.Report) {
	fmt.Fprintf(w, "rows in:         %d\n", report.RowsIn)
	fmt.Fprintf(w, "rows out:        %d\n", report.RowsOut)
	fmt.Fprintf(w, "dropped missing: %d\n", report.DroppedMissing)
	fmt.Fprintf(w, "dropped invalid: %d\n", report.DroppedInvalid)
	fmt.Fprintf(w, "fingerprint:     %s\n", report.Fingerprint.Short())

	fmt.Fprintf(w, "\nnon-null values\n")
	for _, col := range report.Columns {
		fmt.Fprintf(w, "  %-20s %d\n", col, report.NonNullCounts[col])
	}
	for _, col := range penguins.CategoricalColumns {
		counts, ok := report.ValueCounts[col]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", col)
		for _, vc := range counts {
			fmt.Fprintf(w, "  %-20s %d\n", vc.Value, vc.Count)
		}
	}
}
