package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/npuzzle/internal/server"
	"github.com/matzehuels/npuzzle/pkg/cache"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the solver over HTTP",
		Long: `Serve a JSON API for solving puzzles.

  GET  /healthz
  GET  /v1/strategies
  GET  /v1/heuristics
  POST /v1/shuffle   {"size": 4, "steps": 50, "seed": 1}
  POST /v1/solve     {"board": "1 2 3 4 5 6 0 7 8", "strategy": "astar"}

Requests are bounded by server.timeout, search.max_expansions and
search.max_shuffle.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			store, err := c.openCache(ctx, noCache)
			if err != nil {
				return err
			}
			keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), server.CachePrefix)
			runner := solver.NewRunner(store, keyer, c.Logger)
			runner.TTL = c.Config.Cache.TTL
			defer runner.Close()

			srv := server.New(runner, c.Logger.WithPrefix("http"), server.Options{
				Timeout:       c.Config.Server.Timeout,
				MaxExpansions: c.Config.Search.MaxExpansions,
				MaxShuffle:    c.Config.Search.MaxShuffle,
			})
			printInfo("Listening on %s", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
