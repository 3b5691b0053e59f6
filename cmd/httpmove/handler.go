package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kigster/gomoku"
)

// server holds the long-lived pieces shared across requests: one
// Engine (and therefore one worker pool) for the process's lifetime,
// so pool construction is amortized across requests rather than
// paid on every call.
type server struct {
	cfg    *Config
	engine *gomoku.Engine
	logger *log.Logger
}

func newServer(cfg *Config) *server {
	var engine *gomoku.Engine
	if cfg.PoolSize > 0 {
		engine = gomoku.NewEngine(cfg.PoolSize)
	} else {
		engine = gomoku.NewDefaultEngine()
	}
	return &server{
		cfg:    cfg,
		engine: engine,
		logger: log.New(log.Writer(), "[httpmove] ", log.LstdFlags),
	}
}

// replay rebuilds a gomoku.State from a wire move list. It is the
// stateless service's entire notion of "the game so far" — every
// request carries its own history.
func replay(req moveRequest) (*gomoku.State, gomoku.Cell, error) {
	s, err := gomoku.CreateState(req.BoardSize, req.Seed)
	if err != nil {
		return nil, gomoku.Empty, err
	}
	for i, m := range req.Moves {
		side, ok := sideOf(m.Side)
		if !ok {
			return nil, gomoku.Empty, fmt.Errorf("move %d: bad side %q", i, m.Side)
		}
		if err := gomoku.ApplyMove(s, m.X, m.Y, side); err != nil {
			return nil, gomoku.Empty, fmt.Errorf("move %d: %w", i, err)
		}
	}
	side, ok := sideOf(req.Side)
	if !ok {
		return nil, gomoku.Empty, fmt.Errorf("bad side %q", req.Side)
	}
	return s, side, nil
}

func (req moveRequest) depthAndDeadline(cfg *Config) (int, time.Time) {
	depth := req.MaxDepth
	if depth <= 0 {
		depth = cfg.DefaultDepth
	}
	budget := cfg.DefaultBudget
	if req.BudgetMS > 0 {
		budget = time.Duration(req.BudgetMS) * time.Millisecond
	}
	if budget <= 0 {
		return depth, time.Time{}
	}
	return depth, time.Now().Add(budget)
}

// handleMove is POST /move: replay the move list, search once,
// respond with the chosen move.
func (srv *server) handleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	requestID := uuid.New().String()

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("bad request body: %v", err))
		return
	}

	state, side, err := replay(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	depth, deadline := req.depthAndDeadline(srv.cfg)
	result, err := srv.engine.FindBestMove(state, side, depth, deadline)
	if err != nil {
		srv.logger.Printf("request %s: %v", requestID, err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	srv.logger.Printf("request %s: move=%v score=%d depth=%d nodes=%d", requestID, result.Move, result.Score, result.DepthReached, result.NodesEvaluated)
	moves := append(append([]moveIn{}, req.Moves...), moveIn{
		X: result.Move.X, Y: result.Move.Y, Side: wireOf(side),
	})
	writeJSON(w, http.StatusOK, moveResponse{
		RequestID:      requestID,
		Move:           pos{X: result.Move.X, Y: result.Move.Y},
		Score:          result.Score,
		DepthReached:   result.DepthReached,
		NodesEvaluated: result.NodesEvaluated,
		TimedOut:       result.TimedOut,
		WinningMove:    result.WinningMove,
		Moves:          moves,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
