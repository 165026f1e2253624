package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface of this package with
// Prometheus collectors.
type Prometheus struct {
	mutations        *prometheus.CounterVec
	mutationDuration *prometheus.HistogramVec
	nodes            prometheus.Gauge
	edges            prometheus.Gauge
	loads            *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	saves            *prometheus.CounterVec
	exports          *prometheus.CounterVec
	exportDuration   *prometheus.HistogramVec
	exportBytes      *prometheus.HistogramVec
	cache            *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them with reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Prometheus{
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_mutations_total",
			Help: "Edit operations by operation and result",
		}, []string{"op", "result"}),
		mutationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedigree_mutation_duration_seconds",
			Help:    "Edit operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"op"}),
		nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "pedigree_document_nodes",
			Help: "Individuals in the current document",
		}),
		edges: f.NewGauge(prometheus.GaugeOpts{
			Name: "pedigree_document_edges",
			Help: "Relationships in the current document",
		}),
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_loads_total",
			Help: "Document loads by result",
		}, []string{"result"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pedigree_load_duration_seconds",
			Help:    "Document load duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		saves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_saves_total",
			Help: "Document saves by result",
		}, []string{"result"}),
		exports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_exports_total",
			Help: "Exports by format and result",
		}, []string{"format", "result"}),
		exportDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedigree_export_duration_seconds",
			Help:    "Export duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		exportBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedigree_export_bytes",
			Help:    "Size of export artifacts",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8), // 1KiB to 16MiB
		}, []string{"format"}),
		cache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pedigree_cache_events_total",
			Help: "Artifact cache events by key type and event",
		}, []string{"key_type", "event"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnMutation(_ context.Context, op string, d time.Duration, err error) {
	p.mutations.WithLabelValues(op, result(err)).Inc()
	p.mutationDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (p *Prometheus) OnDocument(_ context.Context, nodes, edges int) {
	p.nodes.Set(float64(nodes))
	p.edges.Set(float64(edges))
}

func (p *Prometheus) OnLoad(_ context.Context, _ string, _ int, d time.Duration, err error) {
	p.loads.WithLabelValues(result(err)).Inc()
	p.loadDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnSave(_ context.Context, _ string, _ int, err error) {
	p.saves.WithLabelValues(result(err)).Inc()
}

func (p *Prometheus) OnExportStart(context.Context, string) {}

func (p *Prometheus) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	p.exports.WithLabelValues(format, result(err)).Inc()
	p.exportDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		p.exportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cache.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cache.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cache.WithLabelValues(keyType, "set").Inc()
}

// Install registers p for every hook category.
func (p *Prometheus) Install() {
	SetEditorHooks(p)
	SetDocumentHooks(p)
	SetExportHooks(p)
	SetCacheHooks(p)
}
