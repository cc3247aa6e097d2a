package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gopenguins/app"
	"gopenguins/domain/core"
	"gopenguins/domain/penguins"
	"gopenguins/domain/simulation"
	"gopenguins/internal"
	apperrors "gopenguins/internal/errors"
	"gopenguins/internal/profiling"
)

// Defaults used when a convergence request leaves fields empty
var (
	DefaultSampleCounts = []int{100, 400, 1600, 6400}
	DefaultTrials       = 100
)

// maxEDABins bounds the per-sex histogram of the exploration
const maxEDABins = 200

// Options tune the JSON surface
type Options struct {
	Decimals        int
	MaxTrials       int
	MaxSampleCounts int
}

// Handler serves the JSON API over the dataset and simulation services
type Handler struct {
	dataset     *app.DatasetService
	simulations *app.SimulationService
	options     Options
	logger      *internal.Logger
}

// NewHandler creates a new API handler
func NewHandler(dataset *app.DatasetService, simulations *app.SimulationService, options Options) *Handler {
	return &Handler{
		dataset:     dataset,
		simulations: simulations,
		options:     options,
		logger:      internal.DefaultLogger.WithComponent("API"),
	}
}

type simulationBody struct {
	Species        string   `json:"species" binding:"required"`
	Feature        string   `json:"feature" binding:"required"`
	Target         *float64 `json:"target"`
	Tolerance      *float64 `json:"tolerance"`
	Samples        *int     `json:"samples"`
	Seed           int64    `json:"seed"`
	IncludeSamples bool     `json:"include_samples"`
}

type simulationResponse struct {
	*simulation.Result
	Percent float64 `json:"percent"`
	Lower   float64 `json:"lower"`
	Upper   float64 `json:"upper"`
}

type convergenceBody struct {
	Species      string  `json:"species" binding:"required"`
	Feature      string  `json:"feature" binding:"required"`
	Target       float64 `json:"target"`
	Tolerance    float64 `json:"tolerance"`
	SampleCounts []int   `json:"sample_counts"`
	Trials       int     `json:"trials"`
	Seed         int64   `json:"seed"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.GetCode(err)})
}

// ListSpecies returns the species present in the dataset
func (h *Handler) ListSpecies(c *gin.Context) {
	species, err := h.dataset.Species()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"species": species})
}

// ListFeatures returns the numeric features with their default tolerances
func (h *Handler) ListFeatures(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"features": penguins.Features()})
}

// GetRange returns the observed range of a selection and suggested parameters
func (h *Handler) GetRange(c *gin.Context) {
	feature, err := penguins.ParseFeature(c.Query("feature"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	prep, err := h.simulations.Prepare(c.Query("species"), feature)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prep)
}

// CreateSimulation runs one estimate. Omitted parameters fall back to the
// suggestions Prepare returns for the selection.
func (h *Handler) CreateSimulation(c *gin.Context) {
	var body simulationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	feature, err := penguins.ParseFeature(body.Feature)
	if err != nil {
		h.respondError(c, err)
		return
	}
	prep, err := h.simulations.Prepare(body.Species, feature)
	if err != nil {
		h.respondError(c, err)
		return
	}

	req := prep.Request
	if body.Target != nil {
		req.Target = *body.Target
	}
	if body.Tolerance != nil {
		req.Tolerance = *body.Tolerance
	}
	if body.Samples != nil {
		req.Samples = *body.Samples
	}

	result, err := h.simulations.Run(c.Request.Context(), req, body.Seed)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := *result
	if !body.IncludeSamples {
		out.Samples = nil
	}
	c.JSON(http.StatusCreated, simulationResponse{
		Result:  &out,
		Percent: result.RoundedPercent(h.options.Decimals),
		Lower:   req.Lower(),
		Upper:   req.Upper(),
	})
}

// CreateConvergence runs a convergence study
func (h *Handler) CreateConvergence(c *gin.Context) {
	var body convergenceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	feature, err := penguins.ParseFeature(body.Feature)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if len(body.SampleCounts) == 0 {
		body.SampleCounts = DefaultSampleCounts
	}
	if body.Trials == 0 {
		body.Trials = DefaultTrials
	}
	if h.options.MaxTrials > 0 && body.Trials > h.options.MaxTrials {
		h.respondError(c, apperrors.New(apperrors.CodeInvalidParameter, "trials exceeds the configured maximum"))
		return
	}
	if h.options.MaxSampleCounts > 0 && len(body.SampleCounts) > h.options.MaxSampleCounts {
		h.respondError(c, apperrors.New(apperrors.CodeInvalidParameter,
			fmt.Sprintf("at most %d sample counts per study", h.options.MaxSampleCounts)))
		return
	}

	report, err := h.simulations.Study(c.Request.Context(), app.StudyRequest{
		Species:      body.Species,
		Feature:      feature,
		Target:       body.Target,
		Tolerance:    body.Tolerance,
		SampleCounts: body.SampleCounts,
		Trials:       body.Trials,
	}, body.Seed)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetETLReport returns the report of the cleaning pass
func (h *Handler) GetETLReport(c *gin.Context) {
	report, err := h.dataset.Report()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetStats returns descriptive statistics, optionally for one species
func (h *Handler) GetStats(c *gin.Context) {
	summaries, err := h.dataset.Describe(c.Query("species"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	groups, err := h.dataset.GroupStats()
	if err != nil {
		h.respondError(c, err)
		return
	}
	for i := range summaries {
		summaries[i].Summary = summaries[i].Summary.Rounded(h.options.Decimals)
	}
	for i := range groups {
		groups[i] = groups[i].Rounded(h.options.Decimals)
	}
	c.JSON(http.StatusOK, gin.H{"features": summaries, "groups": groups})
}

// GetEDA returns the exploratory views of the dataset, zoomed into the
// species query parameter (the first species when empty)
func (h *Handler) GetEDA(c *gin.Context) {
	bins := profiling.DefaultEDABins
	if raw := c.Query("bins"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxEDABins {
			h.respondError(c, core.NewInvalidParameterError("bins", fmt.Sprintf("must be an integer between 1 and %d", maxEDABins)))
			return
		}
		bins = n
	}

	ex, err := h.dataset.Explore(c.Query("species"), bins)
	if err != nil {
		h.respondError(c, err)
		return
	}
	ex.Correlation = ex.Correlation.Rounded(h.options.Decimals)
	for i := range ex.BodyMass {
		ex.BodyMass[i] = ex.BodyMass[i].Rounded(h.options.Decimals)
	}
	c.JSON(http.StatusOK, ex)
}
