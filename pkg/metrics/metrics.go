// Package metrics exposes optimizer runs as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fogsched/taskopt/pkg/algorithms"
)

const (
	namespace = "taskopt"
	subsystem = "optimizer"
)

// Recorder holds the run collectors. Each recorder owns its collectors, so
// several can live side by side on different registries.
type Recorder struct {
	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	evaluations  *prometheus.CounterVec
	bestFitness  *prometheus.GaugeVec
	bestMakespan *prometheus.GaugeVec
	bestCost     *prometheus.GaugeVec
	frontSize    *prometheus.GaugeVec
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	algorithm := []string{"algorithm"}
	r := &Recorder{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Optimizer runs by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall clock time of optimizer runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}, algorithm),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluations_total",
			Help:      "Fitness evaluations, full or incremental.",
		}, algorithm),
		bestFitness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_fitness",
			Help:      "Fitness of the last recommended assignment.",
		}, algorithm),
		bestMakespan: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_makespan",
			Help:      "Makespan of the last recommended assignment.",
		}, algorithm),
		bestCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "best_cost",
			Help:      "Cost of the last recommended assignment.",
		}, algorithm),
		frontSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "front_size",
			Help:      "Size of the last Pareto front found.",
		}, algorithm),
	}
	reg.MustRegister(r.runs, r.duration, r.evaluations, r.bestFitness, r.bestMakespan, r.bestCost, r.frontSize)
	return r
}

// Observe records one run. A run stopped early still reports what it found.
func (r *Recorder) Observe(res algorithms.Result, err error) {
	name := res.Algorithm
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.runs.WithLabelValues(name, outcome).Inc()
	if res.Best.IsZero() {
		return
	}
	r.duration.WithLabelValues(name).Observe(res.Duration.Seconds())
	r.evaluations.WithLabelValues(name).Add(float64(res.Evaluations))
	r.bestFitness.WithLabelValues(name).Set(res.Best.Fitness())
	r.bestMakespan.WithLabelValues(name).Set(res.Best.Time())
	r.bestCost.WithLabelValues(name).Set(res.Best.Cost())
	r.frontSize.WithLabelValues(name).Set(float64(len(res.Front)))
}

// NewRegistry returns a registry carrying the Go runtime and process
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
