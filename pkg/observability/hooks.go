// Package observability provides hooks for metrics and tracing of plot
// rendering.
//
// Hooks are optional: the pipeline and the preview server call them, and
// the defaults do nothing. A binary registers its implementations at
// startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries emit events through the registry:
//
//	observability.Pipeline().OnBuildStart(ctx, name)
//	// ... draw the document ...
//	observability.Pipeline().OnBuildComplete(ctx, name, objects, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the plot pipeline.
type PipelineHooks interface {
	OnDecodeComplete(ctx context.Context, format string, duration time.Duration, err error)

	OnBuildStart(ctx context.Context, document string)
	OnBuildComplete(ctx context.Context, document string, objects int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "document" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDecodeComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}

// =============================================================================
// Counters
// =============================================================================

// Counters is a concurrency-safe implementation of every hook interface
// that counts events. The preview server reports it on its health endpoint.
type Counters struct {
	mu sync.Mutex
	c  Snapshot
}

// Snapshot is a copy of the counters.
type Snapshot struct {
	Builds       int `json:"builds"`
	BuildErrors  int `json:"build_errors"`
	Renders      int `json:"renders"`
	CacheHits    int `json:"cache_hits"`
	CacheMisses  int `json:"cache_misses"`
	CacheWrites  int `json:"cache_writes"`
	Requests     int `json:"requests"`
	ServerErrors int `json:"server_errors"`
}

func (c *Counters) add(f func(*Snapshot)) {
	c.mu.Lock()
	f(&c.c)
	c.mu.Unlock()
}

// Snapshot returns the current counts.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.c
}

func (c *Counters) OnDecodeComplete(context.Context, string, time.Duration, error) {}
func (c *Counters) OnBuildStart(context.Context, string)                           {}

func (c *Counters) OnBuildComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.add(func(s *Snapshot) {
		s.Builds++
		if err != nil {
			s.BuildErrors++
		}
	})
}

func (c *Counters) OnRenderStart(context.Context, []string) {}

func (c *Counters) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	if err == nil {
		c.add(func(s *Snapshot) { s.Renders += len(formats) })
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.add(func(s *Snapshot) { s.CacheHits++ }) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.add(func(s *Snapshot) { s.CacheMisses++ }) }
func (c *Counters) OnCacheSet(context.Context, string, int) {
	c.add(func(s *Snapshot) { s.CacheWrites++ })
}

func (c *Counters) OnRequest(context.Context, string, string) {
	c.add(func(s *Snapshot) { s.Requests++ })
}

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.add(func(s *Snapshot) { s.ServerErrors++ })
	}
}
