package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums all series of the named counter whose labels include want.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, want map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			for k, v := range want {
				if labels[k] != v {
					continue metrics
				}
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestPrometheusPipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)
	ctx := context.Background()

	p.OnComputeStart(ctx, 3)
	p.OnComputeComplete(ctx, 5, 2, time.Millisecond, nil)
	p.OnComputeComplete(ctx, 0, 0, 0, errors.New("bad chain"))
	p.OnRenderComplete(ctx, "board", []string{"svg"}, time.Millisecond, nil)

	assert.Equal(t, 1.0, counterValue(t, reg, "pedalboard_compute_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "pedalboard_compute_total", map[string]string{"result": "error"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "pedalboard_missing_plugins_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "pedalboard_render_total", map[string]string{"viz_type": "board"}))
}

func TestPrometheusCacheAndServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)
	ctx := context.Background()

	p.OnCacheMiss(ctx, "layout")
	p.OnCacheSet(ctx, "layout", 100)
	p.OnCacheHit(ctx, "layout")
	p.OnCacheHit(ctx, "layout")

	p.OnRequest(ctx, "post", "/v1/layout")
	p.OnResponse(ctx, "post", "/v1/layout", 200, time.Millisecond)

	assert.Equal(t, 2.0, counterValue(t, reg, "pedalboard_cache_events_total", map[string]string{"event": "hit"}))
	assert.Equal(t, 100.0, counterValue(t, reg, "pedalboard_cache_written_bytes_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "pedalboard_http_requests_total",
		map[string]string{"method": "POST", "route": "/v1/layout", "status": "200"}))
}

func TestNewPrometheusNilRegisterer(t *testing.T) {
	p := NewPrometheus(nil)
	p.OnCacheHit(context.Background(), "layout")
}
