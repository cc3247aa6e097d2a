package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopenguins/adapters/rng"
	"gopenguins/app"
	"gopenguins/internal"
	"gopenguins/internal/api"
	"gopenguins/internal/charts"
	"gopenguins/internal/config"
	"gopenguins/internal/etl"
	"gopenguins/internal/metrics"
	"gopenguins/ports"
	"gopenguins/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	Source  ports.TableSource
	RNG     ports.RNGPort
	Metrics *metrics.Recorder

	// Services
	Dataset     *app.DatasetService
	Simulations *app.SimulationService

	// Presentation
	Interactive ports.ChartRenderer
	Static      ports.ChartRenderer
	Explorer    ui.ExplorationRenderer

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	source := etl.NewFileSource(cfg.Data.File)
	source.File.Sheet = cfg.Data.Sheet

	return &Container{
		Config: cfg,
		Source: source,
		logger: internal.DefaultLogger.WithComponent("Container"),
	}, nil
}

// Init loads the dataset and builds the services on top of it
func (c *Container) Init(ctx context.Context) error {
	if c.RNG == nil {
		c.RNG = rng.NewAdapter()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewRecorder()
	}

	dataset := app.NewDatasetService(c.Source)
	if err := dataset.Load(ctx); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	c.Dataset = dataset

	sim := c.Config.Simulation
	c.Simulations = app.NewSimulationService(c.Dataset, c.RNG, c.Metrics, app.SimulationConfig{
		DefaultSamples: sim.DefaultSamples,
		Limits:         app.SampleLimits{Min: sim.MinSamples, Max: sim.MaxSamples},
		Seed:           sim.Seed,
	})

	echarts := charts.NewEChartsRenderer(c.Config.Server.ChartAssetsHost)
	c.Interactive = echarts
	c.Explorer = echarts
	c.Static = charts.NewPNGRenderer()

	c.logger.Info("container initialized with data from %s", c.Config.Data.File)
	return nil
}

// API builds the JSON API engine
func (c *Container) API() http.Handler {
	if c.Config.Server.GinMode != "" {
		gin.SetMode(c.Config.Server.GinMode)
	}
	return api.NewRouter(api.NewHandler(c.Dataset, c.Simulations, api.Options{
		Decimals:        c.Config.Display.Decimals,
		MaxTrials:       c.Config.Simulation.MaxTrials,
		MaxSampleCounts: c.Config.Simulation.MaxSampleCounts,
	}))
}

// UI builds the dashboard with the JSON API mounted under it
func (c *Container) UI() (*ui.App, error) {
	if c.Dataset == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return ui.NewApp(ui.Config{
		Port:          c.Config.Server.Port,
		HistogramBins: c.Config.Display.HistogramBins,
		EDABins:       c.Config.Display.EDABins,
		Decimals:      c.Config.Display.Decimals,
	}, ui.Deps{
		Dataset:     c.Dataset,
		Simulations: c.Simulations,
		Interactive: c.Interactive,
		Static:      c.Static,
		Explorer:    c.Explorer,
		Metrics:     c.Metrics,
		API:         c.API(),
	})
}

// Shutdown releases resources held by the container
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("container shut down")
	return nil
}
