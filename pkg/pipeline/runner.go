package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/boxlayout/pkg/cache"
	boxio "github.com/matzehuels/boxlayout/pkg/io"
	"github.com/matzehuels/boxlayout/pkg/layout"
	"github.com/matzehuels/boxlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means log.Default().
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

// Execute resolves root and renders every requested format.
func (r *Runner) Execute(ctx context.Context, root layout.Root, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		ID:   uuid.NewString(),
		Root: root,
	}
	logger := r.Logger.With("run", result.ID[:8])

	resolveStart := time.Now()
	l, treeHash, hit, err := r.resolve(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Layout = l
	result.TreeHash = treeHash
	result.Stats.NodeCount = root.Count()
	result.Stats.BlockCount = len(l)
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.CacheInfo.LayoutHit = hit

	logger.Info("resolved layout",
		"root", root.ID,
		"blocks", len(l),
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, root, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo computes the layout of root, memoized by the hash of
// the tree's canonical encoding, and reports whether the cache served it.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, root layout.Root, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	l, _, hit, err := r.resolve(ctx, root, opts)
	return l, hit, err
}

// Resolve is ResolveWithCacheInfo without the cache hit info.
func (r *Runner) Resolve(ctx context.Context, root layout.Root, opts Options) (layout.Layout, error) {
	l, _, err := r.ResolveWithCacheInfo(ctx, root, opts)
	return l, err
}

func (r *Runner) resolve(ctx context.Context, root layout.Root, opts Options) (layout.Layout, string, bool, error) {
	treeData, err := boxio.MarshalTree(root)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(treeData)
	cacheKey := r.Keyer.LayoutKey(treeHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if _, cached, err := boxio.ReadLayout(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, treeHash, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnResolveStart(ctx, root.ID, root.Count())
	start := time.Now()

	var l layout.Layout
	if opts.StrictIDs {
		l, err = layout.ResolveStrict(root)
	} else {
		l, err = layout.Resolve(root)
	}
	hooks.OnResolveComplete(ctx, root.ID, len(l), time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := boxio.MarshalLayout(l, root.ID); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, treeHash, false, nil
}

// RenderWithCacheInfo produces the requested artifacts for a resolved
// layout and reports whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root layout.Root, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	renderHash, err := hashInputs(root, l)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, root, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(renderHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, root layout.Root, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, root, l, opts)
	return artifacts, err
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// hashInputs keys artifacts by both the tree and its layout: the tree
// drives draw order and the hierarchy diagram.
func hashInputs(root layout.Root, l layout.Layout) (string, error) {
	treeData, err := boxio.MarshalTree(root)
	if err != nil {
		return "", fmt.Errorf("serialize tree for cache key: %w", err)
	}
	layoutData, err := boxio.MarshalLayout(l, root.ID)
	if err != nil {
		return "", fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return cache.Hash(append(treeData, layoutData...)), nil
}
