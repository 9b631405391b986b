package pkgmetric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "medclean"

// Metrics exposes counters and gauges for the cleaning workflow.
type Metrics struct {
	registry *prometheus.Registry

	FilesSelected        *prometheus.CounterVec
	SimulationsStarted   prometheus.Counter
	SimulationsCompleted prometheus.Counter
	SimulationsStopped   *prometheus.CounterVec
	ActiveSessions       prometheus.Gauge
	RunningSimulations   prometheus.Gauge
	SimulationSeconds    prometheus.Histogram
}

// New creates the collectors on a fresh registry that also carries Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return newWithRegistry(reg)
}

func newWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FilesSelected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_selected_total",
				Help:      "Files handed to a dashboard session, by extension",
			},
			[]string{"extension"},
		),
		SimulationsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_started_total",
			Help:      "Processing simulations started",
		}),
		SimulationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_completed_total",
			Help:      "Processing simulations that reached 100%",
		}),
		SimulationsStopped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulations_stopped_total",
				Help:      "Running simulations torn down before completion",
			},
			[]string{"reason"},
		),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently held in memory",
		}),
		RunningSimulations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running_simulations",
			Help:      "Simulations with a live timer",
		}),
		SimulationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "simulation_duration_seconds",
			Help:      "Wall time from start to completion of a simulation",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 10, 30, 60},
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FileSelected counts a selection; an empty extension is recorded as "none".
func (m *Metrics) FileSelected(extension string) {
	if extension == "" {
		extension = "none"
	}
	m.FilesSelected.WithLabelValues(extension).Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}

// SimulationStarted records a transition into RUNNING.
func (m *Metrics) SimulationStarted() {
	m.SimulationsStarted.Inc()
	m.RunningSimulations.Inc()
}

// SimulationCompleted records a transition into COMPLETE.
func (m *Metrics) SimulationCompleted(elapsed time.Duration) {
	m.SimulationsCompleted.Inc()
	m.RunningSimulations.Dec()
	m.SimulationSeconds.Observe(elapsed.Seconds())
}

// SimulationStopped records a RUNNING simulation torn down early.
func (m *Metrics) SimulationStopped(reason string) {
	m.SimulationsStopped.WithLabelValues(reason).Inc()
	m.RunningSimulations.Dec()
}
