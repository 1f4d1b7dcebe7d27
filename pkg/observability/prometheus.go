package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	computeTotal    *prometheus.CounterVec
	computeDuration prometheus.Histogram
	boardNodes      prometheus.Histogram
	missingPlugins  prometheus.Counter

	renderTotal    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		computeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pedalboard_compute_total",
			Help: "Boards computed, by result.",
		}, []string{"result"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pedalboard_compute_duration_seconds",
			Help:    "Time spent building, laying out and propagating a board.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		boardNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pedalboard_board_nodes",
			Help:    "Nodes per computed board, including endpoints.",
			Buckets: prometheus.ExponentialBuckets(2, 2, 8),
		}),
		missingPlugins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pedalboard_missing_plugins_total",
			Help: "Leaves whose plugin was not found in the registry.",
		}),
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pedalboard_render_total",
			Help: "Render runs, by viz type and result.",
		}, []string{"viz_type", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedalboard_render_duration_seconds",
			Help:    "Time spent rendering all requested formats.",
			Buckets: prometheus.DefBuckets,
		}, []string{"viz_type"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pedalboard_cache_events_total",
			Help: "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pedalboard_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pedalboard_http_requests_total",
			Help: "HTTP requests served, by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pedalboard_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pedalboard_http_in_flight_requests",
			Help: "Requests currently being served.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			p.computeTotal, p.computeDuration, p.boardNodes, p.missingPlugins,
			p.renderTotal, p.renderDuration,
			p.cacheEvents, p.cacheBytes,
			p.httpRequests, p.httpDuration, p.httpInFlight,
		)
	}
	return p
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnComputeStart(context.Context, int) {}

func (p *Prometheus) OnComputeComplete(_ context.Context, nodes, missing int, d time.Duration, err error) {
	p.computeTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	p.computeDuration.Observe(d.Seconds())
	p.boardNodes.Observe(float64(nodes))
	p.missingPlugins.Add(float64(missing))
}

func (p *Prometheus) OnRenderStart(context.Context, string, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, vizType string, _ []string, d time.Duration, err error) {
	p.renderTotal.WithLabelValues(vizType, result(err)).Inc()
	p.renderDuration.WithLabelValues(vizType).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	method = strings.ToUpper(method)
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ ServerHooks   = (*Prometheus)(nil)
)
