// Package cli implements the npuzzle command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/npuzzle/internal/config"
	"github.com/matzehuels/npuzzle/pkg/cache"
	"github.com/matzehuels/npuzzle/pkg/experiment"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and completions.
const appName = "npuzzle"

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
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a solver runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*solver.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := solver.NewRunner(store, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, c.Config.CacheOptions())
	if err != nil {
		// A broken cache should not prevent solving.
		c.Logger.Warn("cache disabled", "backend", c.Config.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return store, nil
}

// newExperimentRunner creates an experiment runner logging through the CLI.
func (c *CLI) newExperimentRunner() *experiment.Runner {
	return experiment.NewRunner(c.Logger)
}
