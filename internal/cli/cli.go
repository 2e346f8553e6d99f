// Package cli implements the collatzgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/collatzgraph/pkg/buildinfo"
	"github.com/matzehuels/collatzgraph/pkg/cache"
	"github.com/matzehuels/collatzgraph/pkg/config"
	"github.com/matzehuels/collatzgraph/pkg/observability"
	"github.com/matzehuels/collatzgraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "collatzgraph"

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
	Config *config.Config

	configPath string
	metricsOut string
	metrics    *observability.PrometheusHooks
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "collatzgraph builds and explores Collatz predecessor graphs",
		Long: `collatzgraph computes odd predecessors under the generalized map kn+1,
expands them into predecessor graphs, binary trees and pruned trees, and
exports the result as CSV, JSON, DOT, SVG or PNG.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.preRun,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.writeMetrics()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/collatzgraph/config.toml)")
	root.PersistentFlags().StringVar(&c.metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")

	// Register all subcommands
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.binaryCommand())
	root.AddCommand(c.prunedCommand())
	root.AddCommand(c.predecessorCommand())
	root.AddCommand(c.siblingCommand())
	root.AddCommand(c.sequenceCommand())
	root.AddCommand(c.cyclesCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// preRun loads the configuration file and installs metrics hooks.
func (c *CLI) preRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if level, err := cfg.LogLevel(); err == nil {
		c.SetLogLevel(level)
	}

	if c.metricsOut != "" {
		c.metrics = observability.NewPrometheusHooks()
		observability.SetPipelineHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
	}
	return nil
}

func (c *CLI) writeMetrics() error {
	if c.metrics == nil || c.metricsOut == "" {
		return nil
	}
	f, err := os.Create(c.metricsOut)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	defer f.Close()
	if err := c.metrics.WriteText(f); err != nil {
		return err
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsOut)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.CacheNamespace())
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Backend == cache.BackendNone {
		return cache.NewNullCache(), nil
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	ch, err := cache.New(ctx, cache.Config{
		Backend:   c.Config.Cache.Backend,
		Dir:       dir,
		RedisAddr: c.Config.Cache.RedisAddr,
		RedisDB:   c.Config.Cache.RedisDB,
		Password:  c.Config.Cache.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", c.Config.Cache.Backend, err)
	}
	return ch, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/collatzgraph/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields fallback.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
