package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for recorded simulations
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder collects simulation metrics on its own registry
type Recorder struct {
	registry    *prometheus.Registry
	simulations *prometheus.CounterVec
	sampleSize  prometheus.Histogram
	probability *prometheus.HistogramVec
}

// NewRecorder registers the simulation collectors plus Go runtime collectors
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gopenguins",
			Name:      "simulations_total",
			Help:      "Monte Carlo estimations by species, feature and outcome.",
		}, []string{"species", "feature", "outcome"}),
		sampleSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gopenguins",
			Name:      "simulation_samples",
			Help:      "Number of resampled draws per estimation.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 4),
		}),
		probability: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gopenguins",
			Name:      "simulation_probability",
			Help:      "Estimated probabilities returned to callers.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"species"}),
	}
	reg.MustRegister(
		r.simulations,
		r.sampleSize,
		r.probability,
		collectors.NewGoCollector(),
	)
	return r
}

// ObserveSimulation records a finished estimation
func (r *Recorder) ObserveSimulation(species, feature string, samples int, probability float64) {
	if r == nil {
		return
	}
	r.simulations.WithLabelValues(species, feature, OutcomeOK).Inc()
	r.sampleSize.Observe(float64(samples))
	r.probability.WithLabelValues(species).Observe(probability)
}

// ObserveFailure records an estimation that did not produce a result
func (r *Recorder) ObserveFailure(species, feature, outcome string) {
	if r == nil {
		return
	}
	r.simulations.WithLabelValues(species, feature, outcome).Inc()
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Simulations exposes the outcome counter
func (r *Recorder) Simulations() *prometheus.CounterVec {
	return r.simulations
}
