package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cms-cat/cmsstyle-go/pkg/buildinfo"
	"github.com/cms-cat/cmsstyle-go/pkg/cache"
	"github.com/cms-cat/cmsstyle-go/pkg/cmsstyle"
	"github.com/cms-cat/cmsstyle-go/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Every run builds
// its own cmsstyle session, so goroutines can share a Runner.
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

// Execute runs the complete decode → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Decode
	decodeStart := time.Now()
	doc, hit, err := r.DecodeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	result.Document = doc
	result.CacheInfo.DocumentHit = hit
	result.DocumentHash = DocumentHash(doc)
	result.Stats.DecodeTime = time.Since(decodeStart)

	formats, scale, err := opts.RenderSettings(doc)
	if err != nil {
		return nil, err
	}

	// Stage 2 runs lazily: a full artifact cache hit never builds a canvas.
	var plot *Plot
	build := func() (*Plot, error) {
		if plot != nil {
			return plot, nil
		}
		start := time.Now()
		observability.Pipeline().OnBuildStart(ctx, doc.Name)
		p, err := r.Build(doc, opts)
		objects := 0
		if p != nil {
			objects = len(p.Objects)
		}
		observability.Pipeline().OnBuildComplete(ctx, doc.Name, objects, time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		plot = p
		result.Plot = p
		result.Warnings = p.Warnings
		result.Stats.Objects = len(p.Objects)
		result.Stats.BuildTime = time.Since(start)
		r.Logger.Info("built plot",
			"canvas", p.Canvas.Name(),
			"objects", len(p.Objects),
			"warnings", len(p.Warnings),
			"duration", result.Stats.BuildTime)
		return p, nil
	}

	// Stage 3: Render
	renderStart := time.Now()
	renderHit := true
	observability.Pipeline().OnRenderStart(ctx, formats)
	for _, f := range formats {
		format, data, hit, err := r.renderCached(ctx, result.DocumentHash, f, scale, opts.Refresh, build)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(renderStart), err)
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		result.Artifacts[format] = data
		renderHit = renderHit && hit
	}
	result.CacheInfo.RenderHit = renderHit
	result.Stats.RenderTime = time.Since(renderStart) - result.Stats.BuildTime
	observability.Pipeline().OnRenderComplete(ctx, formats, result.Stats.RenderTime, nil)

	r.Logger.Info("rendered outputs",
		"formats", formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DecodeWithCacheInfo decodes the source with caching and returns cache hit
// info. The cache stores the canonical JSON form of the document.
func (r *Runner) DecodeWithCacheInfo(ctx context.Context, opts Options) (*Document, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.DocumentKey(cache.Hash(opts.Source), opts.SourceFormat)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := Decode(data, SourceJSON); err == nil {
				observability.Cache().OnCacheHit(ctx, "document")
				return doc, true, nil
			}
			// A stale entry is recomputed and overwritten below.
		}
		observability.Cache().OnCacheMiss(ctx, "document")
	}

	start := time.Now()
	doc, err := Decode(opts.Source, opts.SourceFormat)
	observability.Pipeline().OnDecodeComplete(ctx, opts.SourceFormat, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(doc); err == nil {
		r.store(ctx, "document", key, data, cache.TTLDocument)
	}
	return doc, false, nil
}

// Decode is a convenience wrapper that calls DecodeWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Decode(ctx context.Context, opts Options) (*Document, error) {
	doc, _, err := r.DecodeWithCacheInfo(ctx, opts)
	return doc, err
}

// Build draws doc on a canvas of a fresh session.
func (r *Runner) Build(doc *Document, opts Options) (*Plot, error) {
	r.applyLogger(&opts)
	sopts := []cmsstyle.Option{cmsstyle.WithLogger(opts.Logger)}
	if opts.LogoDir != "" {
		sopts = append(sopts, cmsstyle.WithLogoDir(opts.LogoDir))
	}
	p, err := Build(cmsstyle.NewSession(sopts...), doc)
	if err != nil {
		return nil, err
	}
	for _, w := range p.Warnings {
		opts.Logger.Warn(w)
	}
	return p, nil
}

func (r *Runner) renderCached(ctx context.Context, docHash, format string, scale float64, refresh bool, build func() (*Plot, error)) (string, []byte, bool, error) {
	f, err := parseFormat(format)
	if err != nil {
		return "", nil, false, err
	}
	key := r.Keyer.ArtifactKey(docHash, ArtifactKeyOpts(string(f), scale, buildinfo.Version))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return string(f), data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	p, err := build()
	if err != nil {
		return "", nil, false, err
	}
	data, err := Render(p, f, scale)
	if err != nil {
		return "", nil, false, err
	}
	r.store(ctx, "artifact", key, data, cache.TTLArtifact)
	return string(f), data, false, nil
}

// store writes a cache entry. Failures only cost a recomputation later and
// are logged.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cannot write cache entry", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// DocumentHash is the content hash of the canonical JSON form of doc.
func DocumentHash(doc *Document) string {
	data, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on opts if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
