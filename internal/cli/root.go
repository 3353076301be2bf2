package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/internal/config"
	"github.com/matzehuels/npuzzle/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Configuration is loaded before any subcommand runs. The log level comes
// from log.level unless --verbose forces debug, in which case solver, cache
// and HTTP events are logged as well.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "npuzzle solves sliding-tile puzzles and compares search strategies",
		Long: `npuzzle solves N×N sliding-tile puzzles with breadth-first, depth-first,
uniform-cost, greedy best-first and A* search, and runs experiments that
compare heuristics across many shuffled instances.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/npuzzle/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.shuffleCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.experimentCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level := LogInfo
	if parsed, err := log.ParseLevel(cfg.Log.Level); err == nil {
		level = parsed
	} else {
		c.Logger.Warn("unknown log level", "level", cfg.Log.Level)
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	if c.verbose {
		installLogHooks(c.Logger)
	}

	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}
