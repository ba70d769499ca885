package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"tak/game"
	"tak/searcher"
)

// Server exposes the agent's move search over HTTP: POST /findmove with a
// JSON game state returns the chosen move and its action index.
type Server struct {
	agent Agent
	space *game.ActionSpace
	mux   *http.ServeMux
}

func NewServer(a Agent, space *game.ActionSpace) *Server {
	s := &Server{agent: a, space: space, mux: http.NewServeMux()}
	s.mux.HandleFunc("/findmove", s.handleFindMove)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.mux}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	log.Info().Str("addr", addr).Msg("agent server listening")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

type findMoveRequest struct {
	State *game.GameState `json:"state"`
}

type findMoveResponse struct {
	Move     game.Move `json:"move"`
	Index    int       `json:"index"`
	Notation string    `json:"notation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleFindMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if req.State == nil {
		writeError(w, http.StatusBadRequest, "missing state")
		return
	}
	if err := req.State.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.State.Board.N != s.space.Size() {
		writeError(w, http.StatusUnprocessableEntity, "board size does not match this agent")
		return
	}

	move, metrics, err := s.agent.FindMove(r.Context(), req.State)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, searcher.ErrInvariant) || errors.Is(err, searcher.ErrOracle) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err.Error())
		return
	}
	index, err := s.space.Encode(move)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().
		Str("move", move.String()).
		Int64("simulations", metrics.Simulations).
		Dur("duration", metrics.Duration).
		Msg("move found")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(findMoveResponse{
		Move:     move,
		Index:    index,
		Notation: move.String(),
	}); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}
