package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gopenguins/app"
	"gopenguins/domain/simulation"
	"gopenguins/internal"
	"gopenguins/internal/metrics"
	"gopenguins/internal/profiling"
	"gopenguins/ports"
)

//go:embed templates/*.html docs/*.md
var embeddedFiles embed.FS

// App represents the dashboard application
type App struct {
	router      *chi.Mux
	dataset     *app.DatasetService
	simulations *app.SimulationService
	interactive ports.ChartRenderer
	static      ports.ChartRenderer
	explorer    ExplorationRenderer
	metrics     *metrics.Recorder
	templates   *template.Template
	docs        template.HTML
	config      Config
	logger      *internal.Logger
}

// Config holds dashboard configuration
type Config struct {
	Port          string
	HistogramBins int
	EDABins       int
	Decimals      int
}

// ExplorationRenderer draws the exploratory charts as one page
type ExplorationRenderer interface {
	RenderExploration(w io.Writer, ex *profiling.Exploration, decimals int) error
}

// Deps are the collaborators the dashboard renders from
type Deps struct {
	Dataset     *app.DatasetService
	Simulations *app.SimulationService
	Interactive ports.ChartRenderer
	Static      ports.ChartRenderer
	Explorer    ExplorationRenderer
	Metrics     *metrics.Recorder
	// API is mounted under /api when set
	API http.Handler
}

// NewApp creates a new dashboard application
func NewApp(config Config, deps Deps) (*App, error) {
	if config.HistogramBins < 1 {
		config.HistogramBins = 30
	}
	if config.EDABins < 1 {
		config.EDABins = profiling.DefaultEDABins
	}

	funcMap := template.FuncMap{
		"round": simulation.Round,
		"percent": func(r *simulation.Result, places int) float64 {
			return r.RoundedPercent(places)
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	docs, err := renderDocs(embeddedFiles, "docs/guide.md")
	if err != nil {
		return nil, fmt.Errorf("failed to render documentation: %w", err)
	}

	a := &App{
		router:      chi.NewRouter(),
		dataset:     deps.Dataset,
		simulations: deps.Simulations,
		interactive: deps.Interactive,
		static:      deps.Static,
		explorer:    deps.Explorer,
		metrics:     deps.Metrics,
		templates:   templates,
		docs:        docs,
		config:      config,
		logger:      internal.DefaultLogger.WithComponent("UI"),
	}

	a.setupMiddleware()
	a.setupRoutes(deps.API)

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "text/html", "application/json"))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(api http.Handler) {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/docs", a.handleDocs)
	a.router.Get("/etl", a.handleETL)
	a.router.Get("/stats", a.handleStats)
	a.router.Get("/eda", a.handleEDA)
	a.router.Get("/eda/charts", a.handleEDACharts)
	a.router.Get("/simulate", a.handleSimulate)
	a.router.Get("/simulate/chart", a.handleSimulateChart)
	a.router.Get("/simulate/plot.png", a.handleSimulatePlot)

	if a.metrics != nil {
		a.router.Handle("/metrics", a.metrics.Handler())
	}
	if api != nil {
		a.router.Mount("/api", api)
	}
}

// Handler returns the root HTTP handler
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	a.logger.Info("starting penguin dashboard on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	a.renderTemplateStatus(w, http.StatusOK, templateName, data)
}

// renderTemplateStatus executes into a buffer first so a template failure
// can still answer with a 500
func (a *App) renderTemplateStatus(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
