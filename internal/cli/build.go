package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polybuild/pkg/browsers"
	"github.com/matzehuels/polybuild/pkg/observability"
	"github.com/matzehuels/polybuild/pkg/pipeline"
	"github.com/matzehuels/polybuild/pkg/watch"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a polyfill source tree into an output tree",
		Long: `Compile a polyfill source tree into an output tree.

Every directory below --source holding a config.toml is a feature. Directories
starting with "__" are skipped. The build validates every feature, checks the
dependency graph and then writes aliases.json plus meta.json, raw.js and min.js
per feature below --dest. Any error aborts the build before outputs are written.`,
		Example: `  # Build with the local minification cache
  polybuild build --source polyfills --dest polyfills/__dist

  # Share minification results between machines
  polybuild build --source polyfills --dest dist --cache-redis redis://cache:6379/0

  # Rebuild whenever a polyfill changes
  polybuild build --source polyfills --dest polyfills/__dist --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.bindFlags(cmd); err != nil {
				return err
			}
			return c.runBuild(cmd)
		},
	}

	cmd.Flags().String(keySource, "", "source tree root (required)")
	cmd.Flags().String(keyDest, "", "output tree root (required)")
	cmd.Flags().Int(keyJobs, 0, "maximum concurrent features (0 = unlimited)")
	cmd.Flags().String(keyBrowsers, "", "TOML file of baseline browsers (default: built-in table)")
	cmd.Flags().Bool(keyWatch, false, "rebuild when the source tree changes")
	cmd.Flags().StringSlice(keyIgnore, nil, "extra glob patterns (relative to --source) that never trigger a rebuild")
	cmd.Flags().String(keyMetrics, "", "write Prometheus metrics to this textfile after every build")
	addCacheFlags(cmd)

	return cmd
}

// addCacheFlags registers the minification cache flags.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(keyNoCache, false, "disable the minification cache")
	cmd.Flags().String(keyCacheRedis, "", "Redis URL for a shared minification cache")
	cmd.Flags().String(keyCacheScope, "", "key prefix inside a shared cache")
}

func (c *CLI) cacheOptions() cacheOptions {
	return cacheOptions{
		Disabled: c.config.GetBool(keyNoCache),
		RedisURL: c.config.GetString(keyCacheRedis),
		Scope:    c.config.GetString(keyCacheScope),
	}
}

// pipelineOptions reads the pipeline options from the bound config.
func (c *CLI) pipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Source:      c.config.GetString(keySource),
		Destination: c.config.GetString(keyDest),
		Jobs:        c.config.GetInt(keyJobs),
	}
	if path := c.config.GetString(keyBrowsers); path != "" {
		table, err := browsers.Load(path)
		if err != nil {
			return opts, err
		}
		opts.Browsers = table
	}
	return opts, nil
}

func (c *CLI) runBuild(cmd *cobra.Command) error {
	ctx := cmd.Context()

	opts, err := c.pipelineOptions()
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, c.cacheOptions())
	if err != nil {
		return err
	}
	defer runner.Close()

	if path := c.config.GetString(keyMetrics); path != "" {
		c.metrics = observability.NewMetrics()
		c.metricsFile = path
		observability.SetPipelineHooks(observability.MultiPipeline(observability.Pipeline(), c.metrics))
		observability.SetCacheHooks(observability.MultiCache(observability.Cache(), c.metrics))
	}

	if c.config.GetBool(keyWatch) {
		return c.watchBuild(ctx, runner, opts)
	}
	return c.build(ctx, runner, opts)
}

func (c *CLI) build(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	c.writeMetrics()
	if err != nil {
		return err
	}
	prog.done("build complete")

	s := result.Stats
	c.printSuccess("Built %d features", s.FeatureCount)
	c.printStats("directories", s.Directories, "edges", s.EdgeCount, "aliases", s.AliasCount)
	c.printDetail("Run %s in %s", result.RunID, s.Total().Round(time.Millisecond))
	c.printFile(opts.Destination)
	return nil
}

// watchBuild builds once and then after every change until ctx is
// cancelled. Failed builds are reported and do not stop watching.
func (c *CLI) watchBuild(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	rebuild := func(ctx context.Context, _ []string) error {
		if err := c.build(ctx, runner, opts); err != nil {
			c.printError("%v", err)
		}
		return nil
	}

	w, err := watch.New(watch.Config{
		Root:     opts.Source,
		Ignore:   watchIgnores(opts, c.config.GetStringSlice(keyIgnore)),
		OnChange: rebuild,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}

	_ = rebuild(ctx, nil)
	c.printInfo("Watching %s (Ctrl+C to stop)", opts.Source)
	if err := w.Run(ctx); err != nil {
		return err
	}
	return ctx.Err()
}

// watchIgnores adds the output tree to extra when it lives inside the
// source tree, so writing outputs does not trigger another build.
func watchIgnores(opts pipeline.Options, extra []string) []string {
	ignores := append([]string(nil), extra...)
	src, err1 := filepath.Abs(opts.Source)
	dst, err2 := filepath.Abs(opts.Destination)
	if err1 != nil || err2 != nil {
		return ignores
	}
	rel, err := filepath.Rel(src, dst)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ignores
	}
	rel = filepath.ToSlash(rel)
	return append(ignores, rel, rel+"/**")
}

// writeMetrics flushes the metrics textfile, if one was requested. A failed
// write is logged and does not fail the build.
func (c *CLI) writeMetrics() {
	if c.metrics == nil {
		return
	}
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		c.Logger.Warn("cannot write metrics", "path", c.metricsFile, "err", err)
		return
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
}
