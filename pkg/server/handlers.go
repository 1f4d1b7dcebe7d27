package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/pedalboard/pkg/board"
	"github.com/matzehuels/pedalboard/pkg/buildinfo"
	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/errors"
	"github.com/matzehuels/pedalboard/pkg/geom"
	"github.com/matzehuels/pedalboard/pkg/pipeline"
	"github.com/matzehuels/pedalboard/pkg/registry"
)

// HeaderCache reports whether the answer came from the cache.
const HeaderCache = "X-Cache"

// LayoutResponse is the body of POST /v1/layout.
type LayoutResponse struct {
	Diagram diagram.Diagram `json:"diagram"`
	Missing []string        `json:"missing,omitempty"`
	Stats   LayoutStats     `json:"stats"`
	Cached  bool            `json:"cached"`
}

// LayoutStats summarizes a computed board.
type LayoutStats struct {
	Nodes   int `json:"nodes"`
	Splits  int `json:"splits"`
	Missing int `json:"missing"`
	Depth   int `json:"depth"`
	Links   int `json:"links"`
}

// HitRequest is the body of POST /v1/hit.
type HitRequest struct {
	Diagram diagram.Diagram `json:"diagram"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
}

// HitResponse is the body of a successful hit test. Target is empty when the
// point is outside every node.
type HitResponse struct {
	Hit    bool   `json:"hit"`
	Target string `json:"target,omitempty"`
	Action string `json:"action,omitempty"`
	Branch string `json:"branch,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Server", buildinfo.UserAgent())
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handlePlugins(w http.ResponseWriter, r *http.Request) {
	plugins := s.registry.List()
	if category := r.URL.Query().Get("category"); category != "" {
		filtered := plugins[:0:0]
		for _, p := range plugins {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
		plugins = filtered
	}
	if plugins == nil {
		plugins = []registry.Plugin{}
	}
	s.writeJSON(w, http.StatusOK, plugins)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	body, c, err := s.readChain(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := "layout:" + r.URL.RawQuery + ":" + cache.Hash(body)
	v, err, _ := s.group.Do(key, func() (any, error) {
		d, hit, err := s.runner.ComputeWithCacheInfo(detach(r.Context()), c, opts)
		if err != nil {
			return nil, err
		}
		st := pipeline.DiagramStats(d)
		return &LayoutResponse{
			Diagram: d,
			Missing: pipeline.MissingPlugins(d),
			Stats: LayoutStats{
				Nodes: st.Nodes, Splits: st.Splits, Missing: st.Missing,
				Depth: st.Depth, Links: st.Links,
			},
			Cached: hit,
		}, nil
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := v.(*LayoutResponse)
	w.Header().Set(HeaderCache, cacheStatus(resp.Cached))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, c, err := s.readChain(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	key := "render:" + r.URL.RawQuery + ":" + cache.Hash(body)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.runner.Execute(detach(r.Context()), c, opts)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res := v.(*pipeline.Result)
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(HeaderCache, cacheStatus(res.CacheInfo.LayoutHit && res.CacheInfo.RenderHit))
	w.Header().Set("ETag", strconv.Quote(res.DiagramHash))
	if _, err := w.Write(res.Artifacts[format]); err != nil {
		s.logger.Debug("write artifact", "error", err)
	}
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	data, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeHit(data)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid hit request"))
		return
	}
	if !req.Diagram.IsBoard() {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "hit testing needs a %s diagram", diagram.VizTypeBoard))
		return
	}
	b, err := req.Diagram.Board()
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid diagram"))
		return
	}

	t, ok := b.HitTest(geom.Point{X: req.X, Y: req.Y})
	if !ok {
		s.writeJSON(w, http.StatusOK, HitResponse{})
		return
	}
	resp := HitResponse{Hit: true, Target: t.ID(), Action: t.Action.String()}
	if t.Action == board.Prepend || t.Action == board.Append {
		resp.Branch = t.Branch.String()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return data, nil
}

func (s *Server) readChain(w http.ResponseWriter, r *http.Request) ([]byte, chain.Chain, error) {
	data, err := s.readBody(w, r)
	if err != nil {
		return nil, chain.Chain{}, err
	}
	format, err := documentFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, chain.Chain{}, err
	}
	c, err := chain.Parse(data, format)
	if err != nil {
		return nil, chain.Chain{}, err
	}
	return data, c, nil
}

// documentFormat maps a Content-Type to a chain document format. A missing
// or generic type is treated as JSON.
func documentFormat(contentType string) (chain.Format, error) {
	if contentType == "" {
		return chain.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid content type")
	}
	switch mt {
	case "application/json", "text/plain", "application/octet-stream":
		return chain.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return chain.FormatYAML, nil
	case "application/toml", "text/toml":
		return chain.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

// options merges query parameters over the server defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.defaults
	opts.Registry = s.registry
	opts.Logger = s.logger
	opts.Formats = nil

	q := r.URL.Query()
	if v := q.Get("viz"); v != "" {
		opts.VizType = v
	}
	if v := q.Get("style"); v != "" {
		opts.Style = v
	}
	for name, dst := range map[string]*bool{
		"interactive": &opts.Interactive,
		"detailed":    &opts.Detailed,
		"refresh":     &opts.Refresh,
	} {
		if v := q.Get(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: expected a boolean, got %q", name, v)
			}
			*dst = b
		}
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "scale: expected a positive number, got %q", v)
		}
		opts.Scale = f
	}
	for name, dst := range map[string]*int{"inputs": &opts.Inputs, "outputs": &opts.Outputs} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s: expected an integer, got %q", name, v)
			}
			if !opts.PortsSet && opts.Inputs == 0 && opts.Outputs == 0 {
				opts.Inputs, opts.Outputs = registry.DefaultPorts.Inputs, registry.DefaultPorts.Outputs
			}
			opts.PortsSet = true
			*dst = n
		}
	}
	return opts, nil
}

func decodeHit(data []byte) (HitRequest, error) {
	var raw struct {
		Diagram json.RawMessage `json:"diagram"`
		X       *float64        `json:"x"`
		Y       *float64        `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return HitRequest{}, err
	}
	if len(raw.Diagram) == 0 {
		return HitRequest{}, stderrors.New("diagram is required")
	}
	if raw.X == nil || raw.Y == nil {
		return HitRequest{}, stderrors.New("x and y are required")
	}
	d, err := diagram.UnmarshalDiagram(raw.Diagram)
	if err != nil {
		return HitRequest{}, err
	}
	return HitRequest{Diagram: d, X: *raw.X, Y: *raw.Y}, nil
}

// detach keeps request values but drops cancellation; a flight is shared
// between callers.
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
