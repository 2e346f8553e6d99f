package observability

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// PrometheusHooks implements [PipelineHooks] and [CacheHooks] on top of a
// private Prometheus registry.
//
// The CLI is short-lived, so metrics are not scraped. Instead the registry is
// dumped once at exit with [PrometheusHooks.WriteText].
type PrometheusHooks struct {
	registry *prometheus.Registry

	builds         *prometheus.CounterVec
	buildDuration  *prometheus.HistogramVec
	edges          *prometheus.CounterVec
	outcomes       *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
}

// NewPrometheusHooks creates hooks backed by a new registry.
func NewPrometheusHooks() *PrometheusHooks {
	reg := prometheus.NewRegistry()
	m := &PrometheusHooks{registry: reg}

	m.builds = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_builds_total",
		Help: "Total number of table builds",
	}, []string{"mode", "status"})

	m.buildDuration = m.histogramVec(prometheus.HistogramOpts{
		Name:    "collatzgraph_build_duration_seconds",
		Help:    "Table build latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})

	m.edges = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_edges_total",
		Help: "Total number of edges produced by builds",
	}, []string{"mode"})

	m.outcomes = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_predecessor_outcomes_total",
		Help: "Predecessor computations by outcome",
	}, []string{"mode", "outcome"})

	m.renders = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_renders_total",
		Help: "Total number of render passes",
	}, []string{"status"})

	m.renderDuration = m.histogramVec(prometheus.HistogramOpts{
		Name:    "collatzgraph_render_duration_seconds",
		Help:    "Render latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, nil)

	m.cacheEvents = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_cache_events_total",
		Help: "Cache lookups and writes by key type",
	}, []string{"key_type", "event"})

	m.cacheBytes = m.counterVec(prometheus.CounterOpts{
		Name: "collatzgraph_cache_written_bytes_total",
		Help: "Bytes written to the cache",
	}, []string{"key_type"})

	return m
}

func (m *PrometheusHooks) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labels)
	m.registry.MustRegister(cv)
	return cv
}

func (m *PrometheusHooks) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	hv := prometheus.NewHistogramVec(opts, labels)
	m.registry.MustRegister(hv)
	return hv
}

// Registry returns the underlying registry.
func (m *PrometheusHooks) Registry() *prometheus.Registry {
	return m.registry
}

// WriteText writes every gathered metric family to w in the Prometheus text
// exposition format.
func (m *PrometheusHooks) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func (m *PrometheusHooks) OnBuildStart(context.Context, string, int64) {}

func (m *PrometheusHooks) OnBuildComplete(_ context.Context, mode string, edgeCount int, d time.Duration, err error) {
	m.builds.WithLabelValues(mode, status(err)).Inc()
	m.buildDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.edges.WithLabelValues(mode).Add(float64(edgeCount))
	}
}

func (m *PrometheusHooks) OnOutcomes(_ context.Context, mode string, counts map[string]int) {
	for outcome, n := range counts {
		m.outcomes.WithLabelValues(mode, outcome).Add(float64(n))
	}
}

func (m *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (m *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(status(err)).Inc()
	m.renderDuration.WithLabelValues().Observe(d.Seconds())
}

func (m *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)
