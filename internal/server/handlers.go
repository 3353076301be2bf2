package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/npuzzle/pkg/buildinfo"
	"github.com/matzehuels/npuzzle/pkg/errors"
	"github.com/matzehuels/npuzzle/pkg/puzzle"
	"github.com/matzehuels/npuzzle/pkg/search"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type strategyInfo struct {
	Name     string `json:"name"`
	Informed bool   `json:"informed"`
}

type shuffleRequest struct {
	Size  int    `json:"size,omitempty"`
	Steps int    `json:"steps,omitempty"`
	Seed  uint64 `json:"seed,omitempty"`
}

type shuffleResponse struct {
	Board     puzzle.Board `json:"board"`
	Text      string       `json:"text"`
	Manhattan int          `json:"manhattan"`
}

type solveResponse struct {
	ID     string         `json:"id"`
	Result *solver.Result `json:"result"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	out := make([]strategyInfo, 0, len(search.Strategies))
	for _, st := range search.Strategies {
		out = append(out, strategyInfo{Name: st.String(), Informed: st.Informed()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHeuristics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, puzzle.HeuristicNames())
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	var req shuffleRequest
	if !s.decode(w, r, &req) {
		return
	}
	sh, err := solver.ShuffleBoard(req.Size, req.Steps, req.Seed, s.opts.MaxShuffle)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b := sh.Board
	writeJSON(w, http.StatusOK, shuffleResponse{Board: b, Text: b.String(), Manhattan: puzzle.Manhattan(b)})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var opts solver.Options
	if !s.decode(w, r, &opts) {
		return
	}
	if limit := s.opts.MaxExpansions; limit > 0 && (opts.MaxExpansions == 0 || opts.MaxExpansions > limit) {
		opts.MaxExpansions = limit
	}
	opts.Timeout = s.opts.Timeout
	opts.MaxShuffle = s.opts.MaxShuffle
	opts.Logger = s.logger.With("request_id", middleware.GetReqID(r.Context()))

	res, err := s.runner.Solve(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, solveResponse{ID: uuid.NewString(), Result: res})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   errors.UserMessage(err),
		RequestID: middleware.GetReqID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
