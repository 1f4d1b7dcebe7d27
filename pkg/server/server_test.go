package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/observability"
	"github.com/matzehuels/pedalboard/pkg/pipeline"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

const rigJSON = `{
  "name": "rig",
  "nodes": [
    {"id": "gate", "plugin": "noisegate"},
    {"id": "dual", "mode": "mix",
     "top": [{"id": "drive", "plugin": "overdrive"}],
     "bottom": [{"id": "mystery", "plugin": "urn:unknown:fx"}]},
    {"id": "verb", "plugin": "reverb"}
  ]
}`

const rigYAML = `name: rig
nodes:
  - id: comp
    plugin: compressor
  - id: verb
    plugin: reverb
`

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Runner == nil {
		fc, err := cache.NewFileCache(t.TempDir())
		require.NoError(t, err)
		cfg.Runner = pipeline.NewRunner(fc, nil, log.New(io.Discard))
	}
	ts := httptest.NewServer(New(cfg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, contentType, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, contentType, strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(HeaderRequestID))
	assert.NoError(t, err, "response should carry a generated request id")

	body := decode[HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestRequestIDEcho(t *testing.T) {
	ts := newTestServer(t, Config{})
	id := uuid.NewString()

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(HeaderRequestID))

	req.Header.Set(HeaderRequestID, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp2.Header.Get(HeaderRequestID))
}

func TestPlugins(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v1/plugins")
	require.NoError(t, err)
	defer resp.Body.Close()
	all := decode[[]registry.Plugin](t, resp)
	assert.Len(t, all, registry.Default().Len())

	resp2, err := http.Get(ts.URL + "/v1/plugins?category=drive")
	require.NoError(t, err)
	defer resp2.Body.Close()
	drives := decode[[]registry.Plugin](t, resp2)
	require.NotEmpty(t, drives)
	for _, p := range drives {
		assert.Equal(t, "drive", p.Category)
	}

	resp3, err := http.Get(ts.URL + "/v1/plugins?category=nothing")
	require.NoError(t, err)
	defer resp3.Body.Close()
	none := decode[[]registry.Plugin](t, resp3)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/layout", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))

	body := decode[LayoutResponse](t, resp)
	assert.Equal(t, "rig", body.Diagram.Name)
	assert.Equal(t, []string{"urn:unknown:fx"}, body.Missing)
	assert.Equal(t, 1, body.Stats.Splits)
	assert.Equal(t, len(body.Diagram.Nodes), body.Stats.Nodes)
	assert.False(t, body.Cached)

	again := post(t, ts.URL+"/v1/layout", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, again.StatusCode)
	assert.Equal(t, "hit", again.Header.Get(HeaderCache))
}

func TestLayoutPorts(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/layout?inputs=1&outputs=1", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[LayoutResponse](t, resp)
	assert.Equal(t, diagram.Ports{Inputs: 1, Outputs: 1}, body.Diagram.Ports)
}

func TestLayoutYAML(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/layout", "application/yaml; charset=utf-8", rigYAML)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[LayoutResponse](t, resp)
	assert.Empty(t, body.Missing)
	assert.Equal(t, 0, body.Stats.Splits)
}

func TestLayoutErrors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"empty body", "", "application/json", "", 400, "INVALID_INPUT"},
		{"malformed json", "", "application/json", "{", 400, "INVALID_CHAIN"},
		{"duplicate ids", "", "application/json",
			`{"nodes":[{"id":"a","plugin":"fuzz"},{"id":"a","plugin":"fuzz"}]}`, 400, "INVALID_CHAIN"},
		{"content type", "", "image/png", rigJSON, 400, "INVALID_FORMAT"},
		{"bad inputs", "?inputs=two", "application/json", rigJSON, 400, "INVALID_INPUT"},
		{"bad ports", "?inputs=3", "application/json", rigJSON, 400, "INVALID_CONFIG"},
		{"bad flag", "?refresh=maybe", "application/json", rigJSON, 400, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/layout"+tt.query, tt.contentType, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, Config{MaxBody: 16})

	resp := post(t, ts.URL+"/v1/layout", "application/json", rigJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "exceeds 16 bytes")
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/render?format=svg&style=dark", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("<svg")))
	assert.Contains(t, string(data), "#1e1e1e")

	again := post(t, ts.URL+"/v1/render?format=svg&style=dark", "application/json", rigJSON)
	assert.Equal(t, "hit", again.Header.Get(HeaderCache))
}

func TestRenderDefaultsToSVG(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/render", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
}

func TestRenderNodelinkJSON(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp := post(t, ts.URL+"/v1/render?format=json&viz=nodelink", "application/json", rigJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	d, err := diagram.UnmarshalDiagram(data)
	require.NoError(t, err)
	assert.True(t, d.IsNodelink())
	assert.Contains(t, d.DOT, "digraph")
}

func TestRenderErrors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		query string
		code  string
	}{
		{"?format=gif", "INVALID_FORMAT"},
		{"?style=neon", "INVALID_STYLE"},
		{"?viz=tower", "INVALID_VIZ_TYPE"},
		{"?scale=-1", "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render"+tt.query, "application/json", rigJSON)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, resp).Code)
		})
	}
}

func TestHit(t *testing.T) {
	ts := newTestServer(t, Config{})

	c, err := chain.Parse([]byte(rigJSON), chain.FormatJSON)
	require.NoError(t, err)
	_, d, err := pipeline.Compute(c, pipeline.Options{})
	require.NoError(t, err)

	var verb diagram.Node
	for _, n := range d.Nodes {
		if n.ID == "verb" {
			verb = n
		}
	}
	require.Equal(t, "verb", verb.ID)

	hitBody := func(x, y float64) string {
		raw, err := json.Marshal(map[string]any{"diagram": d, "x": x, "y": y})
		require.NoError(t, err)
		return string(raw)
	}

	resp := post(t, ts.URL+"/v1/hit", "application/json", hitBody(verb.X+verb.Width/2, verb.Y+verb.Height/2))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[HitResponse](t, resp)
	assert.Equal(t, HitResponse{Hit: true, Target: "verb", Action: "replace"}, got)

	miss := post(t, ts.URL+"/v1/hit", "application/json", hitBody(-50, -50))
	require.Equal(t, http.StatusOK, miss.StatusCode)
	assert.False(t, decode[HitResponse](t, miss).Hit)
}

func TestHitErrors(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"no diagram", `{"x": 1, "y": 1}`, 400},
		{"no point", `{"diagram": {"viz_type": "board"}}`, 400},
		{"nodelink", `{"diagram": {"viz_type": "nodelink", "dot": "digraph {}"}, "x": 1, "y": 1}`, 501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/hit", "application/json", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetServerHooks(observability.NewPrometheus(reg))
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, Config{Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})})

	for range 3 {
		resp, err := http.Get(ts.URL + "/v1/plugins")
		require.NoError(t, err)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	want := fmt.Sprintf(`pedalboard_http_requests_total{method="GET",route="/v1/plugins",status="200"} %d`, 3)
	assert.Contains(t, string(data), want)
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
