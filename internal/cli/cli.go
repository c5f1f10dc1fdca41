// Package cli implements the polybuild command-line interface.
//
// The CLI compiles a polyfill source tree into its served output tree and
// offers tools to inspect both. It is built with cobra; flags are bound
// through viper so every setting can also come from a POLYBUILD_*
// environment variable or a polybuild.toml file.
//
// # Commands
//
//   - build: compile a source tree into an output tree (--watch rebuilds on change)
//   - graph: render the dependency graph of a source tree
//   - aliases: print the alias index of an output tree
//   - browse: interactively browse an output tree
//   - cache: manage the minification cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Debug output
// includes per-feature pipeline events and cache hits.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/polybuild/pkg/buildinfo"
	"github.com/matzehuels/polybuild/pkg/cache"
	"github.com/matzehuels/polybuild/pkg/observability"
	"github.com/matzehuels/polybuild/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "polybuild"

	// envPrefix prefixes every environment variable read by the CLI.
	envPrefix = "POLYBUILD"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config *viper.Viper
	out    io.Writer

	metrics     *observability.Metrics
	metricsFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: newConfig(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs), mainly for tests.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose    bool
		configFile string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "polybuild compiles polyfill libraries",
		Long:         `polybuild compiles a polyfill source tree (one directory per feature with config.toml, polyfill.js and detect.js) into a served output tree with an alias index, metadata and raw and minified sources.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(configFile); err != nil {
				return err
			}
			level := LogInfo
			if verbose || c.config.GetBool(keyVerbose) {
				level = LogDebug
			}
			c.SetLogLevel(level)
			if used := c.config.ConfigFileUsed(); used != "" {
				c.Logger.Debug("using config file", "path", used)
			}

			hooks := newLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./polybuild.toml, or $POLYBUILD_CONFIG_FILE)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.aliasesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheOptions selects the minification cache backend.
type cacheOptions struct {
	Disabled bool
	RedisURL string
	Scope    string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts cacheOptions) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if opts.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, opts.Scope+":")
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, opts cacheOptions) (cache.Cache, error) {
	switch {
	case opts.Disabled:
		return cache.NewNullCache(), nil
	case opts.RedisURL != "":
		return cache.NewRedisCache(ctx, opts.RedisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/polybuild/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
