package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics for one run. A batch job exits before anything could scrape it,
// so the registry is pushed to a Pushgateway instead of served.
type Metrics struct {
	Registry *prometheus.Registry
	Runs     *prometheus.CounterVec
	Bytes    *prometheus.CounterVec
	Stages   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fileproc_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		Bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fileproc_bytes_total",
			Help: "Blob bytes moved, by direction.",
		}, []string{"direction"}),
		Stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fileproc_stage_duration_seconds",
			Help:    "Wall time per pipeline stage.",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"stage"}),
	}
	m.Registry.MustRegister(m.Runs, m.Bytes, m.Stages)
	return m
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.Stages.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) AddBytes(direction string, n int) {
	m.Bytes.WithLabelValues(direction).Add(float64(n))
}

func (m *Metrics) RunFinished(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Runs.WithLabelValues(outcome).Inc()
}

// Push replaces the job's metric group on the gateway.
func (m *Metrics) Push(ctx context.Context, gateway, job string) error {
	return push.New(gateway, job).Gatherer(m.Registry).PushContext(ctx)
}
