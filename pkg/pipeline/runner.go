package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pedalboard/pkg/cache"
	"github.com/matzehuels/pedalboard/pkg/chain"
	"github.com/matzehuels/pedalboard/pkg/diagram"
	"github.com/matzehuels/pedalboard/pkg/observability"
)

// Runner encapsulates pipeline execution with caching. It holds no
// per-run state, so one Runner can serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL overrides cache.TTLLayout when positive.
	LayoutTTL time.Duration
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute computes the board for c and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, c chain.Chain, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	d, hit, err := r.ComputeWithCacheInfo(ctx, c, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Diagram = d
	result.Stats = DiagramStats(d)
	result.Stats.ComputeTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	result.Missing = MissingPlugins(d)

	r.Logger.Info("computed board",
		"chain", d.Name,
		"nodes", result.Stats.Nodes,
		"splits", result.Stats.Splits,
		"missing", result.Stats.Missing,
		"cached", hit,
		"duration", result.Stats.ComputeTime)
	for _, uri := range result.Missing {
		r.Logger.Warn("plugin not found, drawn as stereo", "plugin", uri)
	}

	start = time.Now()
	artifacts, hash, hit, err := r.render(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.DiagramHash = hash
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"viz", opts.VizType,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeWithCacheInfo computes the diagram for c, consulting the cache
// first, and reports whether the cache was hit.
func (r *Runner) ComputeWithCacheInfo(ctx context.Context, c chain.Chain, opts Options) (diagram.Diagram, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return diagram.Diagram{}, false, err
	}

	chainHash, err := ChainHash(c)
	if err != nil {
		return diagram.Diagram{}, false, err
	}
	key := r.Keyer.LayoutKey(chainHash, opts.LayoutKeyOpts(RegistryHash(opts.Registry)))

	if !opts.Refresh {
		if d, ok := r.cachedDiagram(ctx, key); ok {
			opts.Logger.Debug("layout cache hit", "key", key)
			return d, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnComputeStart(ctx, chain.Count(c.Nodes))
	start := time.Now()
	_, d, err := Compute(c, opts)
	stats := DiagramStats(d)
	hooks.OnComputeComplete(ctx, stats.Nodes, stats.Missing, time.Since(start), err)
	if err != nil {
		return diagram.Diagram{}, false, err
	}

	if data, err := diagram.MarshalDiagram(d); err == nil {
		r.store(ctx, "layout", key, data, r.layoutTTL())
	}
	return d, false, nil
}

// Compute is ComputeWithCacheInfo without the cache hit flag.
func (r *Runner) Compute(ctx context.Context, c chain.Chain, opts Options) (diagram.Diagram, error) {
	d, _, err := r.ComputeWithCacheInfo(ctx, c, opts)
	return d, err
}

// RenderWithCacheInfo renders d in every requested format. Cached artifacts
// are only used when all formats are present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.render(ctx, d, opts)
	return artifacts, hit, err
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, d diagram.Diagram, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	data, err := diagram.MarshalDiagram(d)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize diagram for cache key: %w", err)
	}
	hash := cache.Hash(data)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, hash, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.VizType, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, d, opts)
	hooks.OnRenderComplete(ctx, opts.VizType, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return rendered, hash, false, nil
}

func (r *Runner) cachedDiagram(ctx context.Context, key string) (diagram.Diagram, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return diagram.Diagram{}, false
	}
	d, err := diagram.UnmarshalDiagram(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return diagram.Diagram{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return d, true
}

// store writes to the cache; failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) layoutTTL() time.Duration {
	if r.LayoutTTL > 0 {
		return r.LayoutTTL
	}
	return cache.TTLLayout
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
