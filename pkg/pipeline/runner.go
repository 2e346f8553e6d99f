package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/collatzgraph/pkg/cache"
	"github.com/matzehuels/collatzgraph/pkg/graph"
	graphio "github.com/matzehuels/collatzgraph/pkg/io"
	"github.com/matzehuels/collatzgraph/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	// Stage 1: Build
	buildStart := time.Now()
	t, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Table = t
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = t.NodeCount()
	result.Stats.EdgeCount = t.Len()
	result.Stats.Outcomes = t.Stats()
	result.CacheInfo.BuildHit = buildHit

	logger.Info("built table",
		"mode", opts.Mode,
		"nodes", t.NodeCount(),
		"edges", t.Len(),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, tableHash, renderHit, err := r.renderWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.TableHash = tableHash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo builds the table with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (*graph.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.GraphKey(opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if t, err := graphio.UnmarshalJSON(data); err == nil {
				observability.Cache().OnCacheHit(ctx, keyTypeGraph)
				return t, true, nil
			}
			opts.Logger.Warn("discarding unreadable cache entry", "key", cacheKey)
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeGraph)
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Mode, opts.K)
	start := time.Now()
	t, err := Build(ctx, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, opts.Mode, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnBuildComplete(ctx, opts.Mode, t.Len(), time.Since(start), nil)
	hooks.OnOutcomes(ctx, opts.Mode, outcomeCounts(t.Stats()))

	if data, err := graphio.MarshalJSON(t); err == nil {
		r.store(ctx, cacheKey, keyTypeGraph, data, opts)
	}

	return t, false, nil
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, t *graph.Table, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	tableData, err := graphio.MarshalJSON(t)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize table for cache key: %w", err)
	}
	tableHash := cache.Hash(tableData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
			break
		}
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, tableHash, true, nil
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(t, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(tableHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cacheKey, keyTypeArtifact, data, opts)
	}

	return rendered, tableHash, false, nil
}

// store writes to the cache, retrying transient backend failures. Cache
// write errors never fail a run.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, opts Options) {
	err := cache.DefaultBackoff.Retry(ctx, func() error {
		return r.Cache.Set(ctx, key, data, opts.TTL)
	})
	if err != nil {
		opts.Logger.Warn("cache write failed", "key_type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func outcomeCounts(s graph.Stats) map[string]int {
	return map[string]int{
		"found":         s.Found,
		"leaf":          s.Leaves,
		"no_solution":   s.NoSolution,
		"indeterminate": s.Indeterminate,
	}
}
