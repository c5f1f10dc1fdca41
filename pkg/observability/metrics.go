package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline and cache events as Prometheus metrics. Builds
// are short-lived, so the CLI writes the registry to a node_exporter
// textfile after each build instead of serving it.
type Metrics struct {
	Registry *prometheus.Registry

	discovered  prometheus.Gauge
	edges       prometheus.Gauge
	loadSeconds *prometheus.HistogramVec
	sizeBytes   prometheus.Histogram
	writeSecs   *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	cacheEvents *prometheus.CounterVec
	lastBuild   prometheus.Gauge
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		discovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polybuild",
			Name:      "features_discovered",
			Help:      "Feature directories with a config found by the last discovery.",
		}),
		edges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polybuild",
			Name:      "graph_edges",
			Help:      "Dependency edges in the last validated graph.",
		}),
		loadSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polybuild",
			Name:      "feature_load_seconds",
			Help:      "Time to load, check and minify one feature.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"result"}),
		sizeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "polybuild",
			Name:      "feature_min_bytes",
			Help:      "Size of the minified output per feature.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		writeSecs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "polybuild",
			Name:      "feature_write_seconds",
			Help:      "Time to write the outputs of one feature.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"result"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polybuild",
			Name:      "stage_errors_total",
			Help:      "Failed pipeline stage events.",
		}, []string{"stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "polybuild",
			Name:      "cache_events_total",
			Help:      "Minification cache lookups and writes.",
		}, []string{"type", "event"}),
		lastBuild: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "polybuild",
			Name:      "last_validation_timestamp_seconds",
			Help:      "Unix time of the last successful graph validation.",
		}),
	}
	m.Registry.MustRegister(
		m.discovered, m.edges, m.loadSeconds, m.sizeBytes,
		m.writeSecs, m.errors, m.cacheEvents, m.lastBuild,
	)
	return m
}

// WriteTextfile atomically writes the registry in text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) OnDiscover(_ context.Context, _ string, features int, _ time.Duration, err error) {
	if err != nil {
		m.errors.WithLabelValues("discover").Inc()
		return
	}
	m.discovered.Set(float64(features))
}

func (m *Metrics) OnFeatureLoaded(_ context.Context, _ string, size int, d time.Duration, err error) {
	m.loadSeconds.WithLabelValues(result(err)).Observe(d.Seconds())
	if err != nil {
		m.errors.WithLabelValues("load").Inc()
		return
	}
	m.sizeBytes.Observe(float64(size))
}

func (m *Metrics) OnGraphValidated(_ context.Context, _, edges int, _ time.Duration, err error) {
	if err != nil {
		m.errors.WithLabelValues("validate").Inc()
		return
	}
	m.edges.Set(float64(edges))
	m.lastBuild.SetToCurrentTime()
}

func (m *Metrics) OnFeatureWritten(_ context.Context, _ string, d time.Duration, err error) {
	m.writeSecs.WithLabelValues(result(err)).Observe(d.Seconds())
	if err != nil {
		m.errors.WithLabelValues("write").Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
)
