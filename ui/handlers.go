package ui

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gopenguins/app"
	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/domain/simulation"
	apperrors "gopenguins/internal/errors"
	"gopenguins/internal/etl"
	"gopenguins/internal/profiling"
	"gopenguins/ports"
)

type pageData struct {
	Title  string
	Active string
	Error  string
}

type indexPage struct {
	pageData
	Rows     int
	Species  []string
	Features []penguins.FeatureInfo
}

type docsPage struct {
	pageData
	Body template.HTML
}

type etlPage struct {
	pageData
	Report *etl.Report
}

type statsPage struct {
	pageData
	Species   []string
	Selected  string
	Summaries []profiling.FeatureSummary
	Groups    []profiling.GroupStat
	Features  []penguins.FeatureInfo
}

type edaPage struct {
	pageData
	Species     []string
	Selected    string
	Correlation profiling.CorrelationMatrix
	BodyMass    []profiling.BoxStat
	ChartsURL   template.URL
}

type simulatePage struct {
	pageData
	Species    []string
	Features   []penguins.FeatureInfo
	Prep       *app.Preparation
	Request    simulation.Request
	Seed       int64
	Result     *simulation.Result
	Decimals   int
	ChartURL   template.URL
	PlotURL    template.URL
	MinSamples int
	MaxSamples int
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	table, err := a.dataset.Table()
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "index.html", indexPage{
		pageData: pageData{Title: "Palmer penguins", Active: "index"},
		Rows:     table.Len(),
		Species:  table.Species(),
		Features: penguins.Features(),
	})
}

func (a *App) handleDocs(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "docs.html", docsPage{
		pageData: pageData{Title: "Documentation", Active: "docs"},
		Body:     a.docs,
	})
}

func (a *App) handleETL(w http.ResponseWriter, r *http.Request) {
	report, err := a.dataset.Report()
	if err != nil {
		a.renderError(w, err)
		return
	}
	a.renderTemplate(w, "etl.html", etlPage{
		pageData: pageData{Title: "Data preparation", Active: "etl"},
		Report:   report,
	})
}

func (a *App) handleStats(w http.ResponseWriter, r *http.Request) {
	selected := r.URL.Query().Get("species")
	species, err := a.dataset.Species()
	if err != nil {
		a.renderError(w, err)
		return
	}
	summaries, err := a.dataset.Describe(selected)
	if err != nil {
		a.renderError(w, err)
		return
	}
	groups, err := a.dataset.GroupStats()
	if err != nil {
		a.renderError(w, err)
		return
	}
	for i := range summaries {
		summaries[i].Summary = summaries[i].Summary.Rounded(a.config.Decimals)
	}
	for i := range groups {
		groups[i] = groups[i].Rounded(a.config.Decimals)
	}
	a.renderTemplate(w, "stats.html", statsPage{
		pageData:  pageData{Title: "Descriptive statistics", Active: "stats"},
		Species:   species,
		Selected:  selected,
		Summaries: summaries,
		Groups:    groups,
		Features:  penguins.Features(),
	})
}

func (a *App) handleEDA(w http.ResponseWriter, r *http.Request) {
	species, err := a.dataset.Species()
	if err != nil {
		a.renderError(w, err)
		return
	}
	ex, err := a.dataset.Explore(r.URL.Query().Get("species"), a.config.EDABins)
	if err != nil {
		a.renderError(w, err)
		return
	}
	for i := range ex.BodyMass {
		ex.BodyMass[i] = ex.BodyMass[i].Rounded(a.config.Decimals)
	}

	page := edaPage{
		pageData:    pageData{Title: "Exploratory analysis", Active: "eda"},
		Species:     species,
		Selected:    ex.Zoom.Species,
		Correlation: ex.Correlation.Rounded(a.config.Decimals),
		BodyMass:    ex.BodyMass,
	}
	if a.explorer != nil {
		page.ChartsURL = template.URL("/eda/charts?" + url.Values{"species": {ex.Zoom.Species}}.Encode())
	}
	a.renderTemplate(w, "eda.html", page)
}

func (a *App) handleEDACharts(w http.ResponseWriter, r *http.Request) {
	if a.explorer == nil {
		http.Error(w, "chart renderer not configured", http.StatusNotFound)
		return
	}
	ex, err := a.dataset.Explore(r.URL.Query().Get("species"), a.config.EDABins)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := a.explorer.RenderExploration(&buf, ex, a.config.Decimals); err != nil {
		a.logger.Error("render exploration: %v", err)
		http.Error(w, "failed to render charts", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (a *App) handleSimulate(w http.ResponseWriter, r *http.Request) {
	page := simulatePage{
		pageData:   pageData{Title: "Monte Carlo estimate", Active: "simulate"},
		Features:   penguins.Features(),
		Decimals:   a.config.Decimals,
		MinSamples: a.simulations.Config().Limits.Min,
		MaxSamples: a.simulations.Config().Limits.Max,
	}
	species, err := a.dataset.Species()
	if err != nil {
		a.renderError(w, err)
		return
	}
	page.Species = species

	prep, req, seed, err := a.requestFromQuery(r)
	page.Prep, page.Request, page.Seed = prep, req, seed
	if err != nil {
		page.Error = err.Error()
		a.renderTemplateStatus(w, apperrors.HTTPStatus(err), "simulate.html", page)
		return
	}

	if r.URL.Query().Get("run") != "" {
		result, err := a.simulations.Run(r.Context(), req, seed)
		if err != nil {
			page.Error = err.Error()
			a.renderTemplateStatus(w, apperrors.HTTPStatus(err), "simulate.html", page)
			return
		}
		page.Result = result
		query := chartQuery(req, result.Seed)
		page.ChartURL = template.URL("/simulate/chart?" + query)
		page.PlotURL = template.URL("/simulate/plot.png?" + query)
	}
	a.renderTemplate(w, "simulate.html", page)
}

func (a *App) handleSimulateChart(w http.ResponseWriter, r *http.Request) {
	a.renderChart(w, r, a.interactive)
}

func (a *App) handleSimulatePlot(w http.ResponseWriter, r *http.Request) {
	a.renderChart(w, r, a.static)
}

func (a *App) renderChart(w http.ResponseWriter, r *http.Request, renderer ports.ChartRenderer) {
	if renderer == nil {
		http.Error(w, "chart renderer not configured", http.StatusNotFound)
		return
	}
	_, req, seed, err := a.requestFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}
	result, err := a.simulations.Replay(r.Context(), req, seed)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := renderer.RenderHistogram(&buf, result, a.config.HistogramBins); err != nil {
		a.logger.Error("render histogram: %v", err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Write(buf.Bytes())
}

// requestFromQuery builds a request from query parameters. Missing values
// fall back to the suggestions for the selection.
func (a *App) requestFromQuery(r *http.Request) (*app.Preparation, simulation.Request, int64, error) {
	q := r.URL.Query()

	species := q.Get("species")
	if species == "" {
		all, err := a.dataset.Species()
		if err != nil {
			return nil, simulation.Request{}, 0, err
		}
		species = all[0]
	}
	feature := penguins.BillLength
	if f := q.Get("feature"); f != "" {
		parsed, err := penguins.ParseFeature(f)
		if err != nil {
			return nil, simulation.Request{}, 0, err
		}
		feature = parsed
	}

	prep, err := a.simulations.Prepare(species, feature)
	if err != nil {
		return nil, simulation.Request{Species: species, Feature: feature}, 0, err
	}
	req := prep.Request

	if err := parseFloatParam(q.Get("target"), "target", &req.Target); err != nil {
		return prep, req, 0, err
	}
	if err := parseFloatParam(q.Get("tolerance"), "tolerance", &req.Tolerance); err != nil {
		return prep, req, 0, err
	}
	if s := strings.TrimSpace(q.Get("samples")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return prep, req, 0, core.NewInvalidParameterError("samples", "must be an integer")
		}
		req.Samples = n
	}
	var seed int64
	if s := strings.TrimSpace(q.Get("seed")); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return prep, req, 0, core.NewInvalidParameterError("seed", "must be an integer")
		}
		seed = n
	}
	return prep, req, seed, nil
}

func parseFloatParam(raw, name string, dst *float64) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return core.NewInvalidParameterError(name, "must be a number")
	}
	*dst = v
	return nil
}

// chartQuery pins the seed so charts redraw the same samples as the page
func chartQuery(req simulation.Request, seed int64) string {
	v := url.Values{}
	v.Set("species", req.Species)
	v.Set("feature", string(req.Feature))
	v.Set("target", strconv.FormatFloat(req.Target, 'f', -1, 64))
	v.Set("tolerance", strconv.FormatFloat(req.Tolerance, 'f', -1, 64))
	v.Set("samples", strconv.Itoa(req.Samples))
	v.Set("seed", strconv.FormatInt(seed, 10))
	return v.Encode()
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("%v", err)
	}
	a.renderTemplateStatus(w, status, "error.html", pageData{Title: "Error", Error: err.Error()})
}
