// Package observability carries build and cache events to whoever wants
// them.
//
// The pipeline and the minification cache report through two small hook
// interfaces, [PipelineHooks] and [CacheHooks]. Until something is
// registered the no-op implementations receive every event. The CLI
// registers its logging hooks and, when --metrics-file is set, combines
// them with [Metrics] through [MultiPipeline] and [MultiCache]:
//
//	m := observability.NewMetrics()
//	observability.SetPipelineHooks(observability.MultiPipeline(logHooks, m))
//	observability.SetCacheHooks(observability.MultiCache(logHooks, m))
//
// Emitters call the registered set directly:
//
//	observability.Pipeline().OnFeatureLoaded(ctx, name, size, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build pipeline.
type PipelineHooks interface {
	// OnDiscover reports the number of feature directories found.
	OnDiscover(ctx context.Context, root string, features int, duration time.Duration, err error)

	// OnFeatureLoaded reports a completed (or failed) descriptor construction.
	OnFeatureLoaded(ctx context.Context, name string, size int, duration time.Duration, err error)

	// OnGraphValidated reports the dependency graph check.
	OnGraphValidated(ctx context.Context, features, edges int, duration time.Duration, err error)

	// OnFeatureWritten reports a completed (or failed) output write.
	OnFeatureWritten(ctx context.Context, name string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from minification cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnDiscover(context.Context, string, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnFeatureLoaded(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnGraphValidated(context.Context, int, int, time.Duration, error)   {}
func (NoopPipelineHooks) OnFeatureWritten(context.Context, string, time.Duration, error)     {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any build runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any build runs.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
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

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
}
