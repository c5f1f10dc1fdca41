package observability

import (
	"context"
	"time"
)

// MultiPipeline fans pipeline events out to every h in order. Nil entries
// are skipped.
func MultiPipeline(h ...PipelineHooks) PipelineHooks {
	return multiPipeline(compact(h))
}

// MultiCache fans cache events out to every h in order. Nil entries are
// skipped.
func MultiCache(h ...CacheHooks) CacheHooks {
	return multiCache(compact(h))
}

func compact[T comparable](in []T) []T {
	var zero T
	out := make([]T, 0, len(in))
	for _, h := range in {
		if h != zero {
			out = append(out, h)
		}
	}
	return out
}

type multiPipeline []PipelineHooks

func (m multiPipeline) OnDiscover(ctx context.Context, root string, features int, d time.Duration, err error) {
	for _, h := range m {
		h.OnDiscover(ctx, root, features, d, err)
	}
}

func (m multiPipeline) OnFeatureLoaded(ctx context.Context, name string, size int, d time.Duration, err error) {
	for _, h := range m {
		h.OnFeatureLoaded(ctx, name, size, d, err)
	}
}

func (m multiPipeline) OnGraphValidated(ctx context.Context, features, edges int, d time.Duration, err error) {
	for _, h := range m {
		h.OnGraphValidated(ctx, features, edges, d, err)
	}
}

func (m multiPipeline) OnFeatureWritten(ctx context.Context, name string, d time.Duration, err error) {
	for _, h := range m {
		h.OnFeatureWritten(ctx, name, d, err)
	}
}

type multiCache []CacheHooks

func (m multiCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheHit(ctx, keyType)
	}
}

func (m multiCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range m {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (m multiCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range m {
		h.OnCacheSet(ctx, keyType, size)
	}
}
