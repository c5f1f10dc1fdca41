package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/polybuild/pkg/observability"
)

// logHooks reports pipeline and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func newLogHooks(l *log.Logger) *logHooks {
	return &logHooks{logger: l}
}

func (h *logHooks) OnDiscover(_ context.Context, root string, features int, d time.Duration, err error) {
	h.report("discover", err, "root", root, "features", features, "duration", d)
}

func (h *logHooks) OnFeatureLoaded(_ context.Context, name string, size int, d time.Duration, err error) {
	h.report("load", err, "feature", name, "size", size, "duration", d)
}

func (h *logHooks) OnGraphValidated(_ context.Context, features, edges int, d time.Duration, err error) {
	h.report("validate", err, "features", features, "edges", edges, "duration", d)
}

func (h *logHooks) OnFeatureWritten(_ context.Context, name string, d time.Duration, err error) {
	h.report("write", err, "feature", name, "duration", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "size", size)
}

func (h *logHooks) report(stage string, err error, kv ...any) {
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.logger.Debug(stage, kv...)
}

var (
	_ observability.PipelineHooks = (*logHooks)(nil)
	_ observability.CacheHooks    = (*logHooks)(nil)
)
