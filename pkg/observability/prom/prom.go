// Package prom provides a Prometheus-backed implementation of the
// observability hook interfaces.
//
// It is registered by the serve command so that scan, cache, HTTP, and
// installer activity shows up on the /metrics endpoint. CLI one-shot
// commands keep the no-op defaults and carry no Prometheus dependency
// at runtime.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/reqsmith/reqsmith/pkg/observability"
)

// Hooks implements the observability hook interfaces with Prometheus metrics.
type Hooks struct {
	scansTotal    prometheus.Counter
	scanDuration  prometheus.Histogram
	filesSkipped  prometheus.Counter
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  prometheus.Histogram
	installsTotal *prometheus.CounterVec
}

// NewHooks creates hooks registered on reg.
// Pass prometheus.DefaultRegisterer for the global registry.
func NewHooks(reg prometheus.Registerer) *Hooks {
	factory := promauto.With(reg)
	return &Hooks{
		scansTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "reqsmith_scans_total",
			Help: "Number of project scans performed.",
		}),
		scanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqsmith_scan_duration_seconds",
			Help:    "Duration of project scans.",
			Buckets: prometheus.DefBuckets,
		}),
		filesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "reqsmith_scan_files_skipped_total",
			Help: "Source files skipped due to parse failures.",
		}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reqsmith_cache_hits_total",
			Help: "Cache hits by key type.",
		}, []string{"key_type"}),
		cacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reqsmith_cache_misses_total",
			Help: "Cache misses by key type.",
		}, []string{"key_type"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reqsmith_http_requests_total",
			Help: "Outgoing HTTP requests by host.",
		}, []string{"host"}),
		httpDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqsmith_http_request_duration_seconds",
			Help:    "Duration of outgoing HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}),
		installsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reqsmith_installs_total",
			Help: "Installer invocations by outcome.",
		}, []string{"outcome"}),
	}
}

// Register installs h as the global scan, cache, HTTP, and install hooks.
func (h *Hooks) Register() {
	observability.SetScanHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetInstallHooks(h)
}

// OnScanStart implements observability.ScanHooks.
func (h *Hooks) OnScanStart(context.Context, string) {}

// OnScanComplete implements observability.ScanHooks.
func (h *Hooks) OnScanComplete(_ context.Context, _ string, _, _ int, duration time.Duration, _ error) {
	h.scansTotal.Inc()
	h.scanDuration.Observe(duration.Seconds())
}

// OnFileSkipped implements observability.ScanHooks.
func (h *Hooks) OnFileSkipped(context.Context, string, error) {
	h.filesSkipped.Inc()
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(context.Context, string, int) {}

// OnRequest implements observability.HTTPHooks.
func (h *Hooks) OnRequest(_ context.Context, _, host, _ string) {
	h.httpRequests.WithLabelValues(host).Inc()
}

// OnResponse implements observability.HTTPHooks.
func (h *Hooks) OnResponse(_ context.Context, _, _, _ string, _ int, duration time.Duration) {
	h.httpDuration.Observe(duration.Seconds())
}

// OnError implements observability.HTTPHooks.
func (h *Hooks) OnError(context.Context, string, string, string, error) {}

// OnInstallStart implements observability.InstallHooks.
func (h *Hooks) OnInstallStart(context.Context, string, bool) {}

// OnInstallComplete implements observability.InstallHooks.
func (h *Hooks) OnInstallComplete(_ context.Context, _ string, _ string, _ time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	h.installsTotal.WithLabelValues(outcome).Inc()
}

var (
	_ observability.ScanHooks    = (*Hooks)(nil)
	_ observability.CacheHooks   = (*Hooks)(nil)
	_ observability.HTTPHooks    = (*Hooks)(nil)
	_ observability.InstallHooks = (*Hooks)(nil)
)
