package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/polybuild/pkg/alias"
	"github.com/matzehuels/polybuild/pkg/cache"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
	"github.com/matzehuels/polybuild/pkg/graph"
	"github.com/matzehuels/polybuild/pkg/io"
	"github.com/matzehuels/polybuild/pkg/minify"
	"github.com/matzehuels/polybuild/pkg/observability"
)

// Runner executes the build pipeline with a shared minification cache.
//
// The Runner holds no per-run state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	minifier *minify.Minifier
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
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		minifier: minify.New(c, keyer),
	}
}

// Execute runs discover → load → validate → write.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	logger := r.Logger.With("run", result.RunID[:8])

	// Stages 1 and 2: discover and load
	features, err := r.load(ctx, opts, logger, &result.Stats)
	if err != nil {
		return nil, err
	}

	// Stage 3: validate
	validateStart := time.Now()
	g := graph.Build(features)
	order, err := graph.Validate(ctx, g, features)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Order = order
	result.Features = inOrder(features, order)
	result.Stats.EdgeCount = g.EdgeCount()
	result.Stats.ValidateTime = time.Since(validateStart)

	logger.Info("validated dependency graph",
		"features", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ValidateTime)

	// Stage 4: write
	writeStart := time.Now()
	unlock, err := io.LockDestination(ctx, opts.Destination)
	if err != nil {
		return nil, err
	}
	defer releaseLock(logger, opts.Destination, unlock)

	if err := io.EnsureDir(opts.Destination); err != nil {
		return nil, err
	}

	result.Aliases = alias.Build(result.Features)
	result.Stats.AliasCount = len(result.Aliases)
	if err := io.WriteAliases(opts.Destination, result.Aliases); err != nil {
		return nil, err
	}
	logger.Info("wrote aliases", "aliases", result.Stats.AliasCount)

	if err := writeFeatures(ctx, opts, result.Features); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)

	logger.Info("wrote features",
		"features", len(result.Features),
		"destination", opts.Destination,
		"duration", result.Stats.WriteTime)

	return result, nil
}

// LoadFeatures discovers and loads the features below opts.Source in
// discovery order without validating the dependency graph.
func (r *Runner) LoadFeatures(ctx context.Context, opts Options) ([]*feature.Feature, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	var stats Stats
	return r.load(ctx, opts, r.Logger, &stats)
}

// Discover returns the configured feature directories below source.
func Discover(ctx context.Context, source string) ([]feature.Path, int, error) {
	start := time.Now()
	all, err := feature.Discover(source)
	var paths []feature.Path
	if err == nil {
		paths = feature.FilterConfigured(all)
	}
	observability.Pipeline().OnDiscover(ctx, source, len(paths), time.Since(start), err)
	return paths, len(all), err
}

func (r *Runner) load(ctx context.Context, opts Options, logger *log.Logger, stats *Stats) ([]*feature.Feature, error) {
	discoverStart := time.Now()
	paths, dirs, err := Discover(ctx, opts.Source)
	if err != nil {
		return nil, err
	}
	stats.Directories = dirs
	stats.DiscoverTime = time.Since(discoverStart)

	logger.Info("discovered features",
		"source", opts.Source,
		"directories", dirs,
		"features", len(paths),
		"duration", stats.DiscoverTime)

	loadStart := time.Now()
	loader := &feature.Loader{
		Browsers: opts.Browsers,
		Licenses: opts.Licenses,
		Minifier: r.minifier,
		Logger:   logger,
	}

	features := make([]*feature.Feature, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, p := range paths {
		g.Go(func() error {
			f, err := loader.Load(gctx, p)
			if err != nil {
				return err
			}
			features[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := checkUniqueNames(features); err != nil {
		return nil, err
	}
	stats.FeatureCount = len(features)
	stats.LoadTime = time.Since(loadStart)

	logger.Info("loaded features",
		"features", len(features),
		"duration", stats.LoadTime)

	return features, nil
}

func writeFeatures(ctx context.Context, opts Options, features []*feature.Feature) error {
	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for _, f := range features {
		g.Go(func() error {
			return io.WriteFeature(gctx, opts.Destination, f)
		})
	}
	return g.Wait()
}

// releaseLock runs unlock and logs a failure; the build result stands
// either way.
func releaseLock(logger *log.Logger, dest string, unlock func() error) {
	if err := unlock(); err != nil {
		logger.Debug("release destination lock", "destination", dest, "err", err)
	}
}

// checkUniqueNames rejects two directories mapping to the same name, such as
// "Array/from" and "Array.from".
func checkUniqueNames(features []*feature.Feature) error {
	seen := make(map[string]string, len(features))
	for _, f := range features {
		if prev, ok := seen[f.Name]; ok {
			return errors.New(errors.ErrCodeInvalidInput,
				"feature name %s is used by both %s and %s", f.Name, prev, f.Path.Rel)
		}
		seen[f.Name] = f.Path.Rel
	}
	return nil
}

// inOrder returns features sorted by order.
func inOrder(features []*feature.Feature, order []string) []*feature.Feature {
	byName := make(map[string]*feature.Feature, len(features))
	for _, f := range features {
		byName[f.Name] = f
	}
	out := make([]*feature.Feature, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
