// Package server exposes the solver over a JSON HTTP API.
//
// Routes:
//
//	GET  /healthz          build information
//	GET  /v1/strategies    available search strategies
//	GET  /v1/heuristics    available heuristics
//	POST /v1/shuffle       generate a solvable board
//	POST /v1/solve         solve a board (body: solver options)
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// status given by errors.HTTPStatus.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

// CachePrefix namespaces solve results stored by the API.
const CachePrefix = "npuzzle:api:"

const (
	defaultTimeout  = 30 * time.Second
	maxBodyBytes    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// Timeout bounds every request, including the search it runs.
	Timeout time.Duration

	// MaxExpansions caps the expansions a single solve may use. Requests
	// asking for more, or for no limit, are clamped to it. Zero disables
	// the cap.
	MaxExpansions int

	// MaxShuffle caps the random moves used to generate a board, for both
	// /v1/shuffle and /v1/solve. Zero means solver.DefaultMaxShuffle.
	MaxShuffle int
}

// Server serves the API.
type Server struct {
	runner *solver.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server that solves with runner. Callers typically give the
// runner a cache.ScopedKeyer with CachePrefix.
func New(runner *solver.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxShuffle <= 0 {
		opts.MaxShuffle = solver.DefaultMaxShuffle
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestEvents)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/strategies", s.handleStrategies)
		r.Get("/heuristics", s.handleHeuristics)
		r.Post("/shuffle", s.handleShuffle)
		r.Post("/solve", s.handleSolve)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: errors.ErrCodeNotFound, Message: "no such route"}})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
