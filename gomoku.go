// Package gomoku is the only exported package in this module. It
// wraps the position state, the sequential searcher, and the
// root-parallel driver behind a small set of in-process operations a
// front-end calls directly — no rendering, no I/O, no persistence.
package gomoku

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kigster/gomoku/internal/board"
	"github.com/kigster/gomoku/internal/engine"
	"github.com/kigster/gomoku/internal/state"
)

// Error taxonomy. Every fallible operation returns one of these
// sentinels rather than panicking for control flow.
var (
	ErrIllegalMove       = errors.New("gomoku: illegal move")
	ErrGameOver          = errors.New("gomoku: game already over")
	ErrNothingToUndo     = errors.New("gomoku: nothing to undo")
	ErrResourceExhausted = errors.New("gomoku: resource exhausted")
)

// Cell and its values mirror internal/board so a caller never needs to
// import an internal package to drive the API.
type Cell = board.Cell

const (
	Empty  = board.Empty
	Cross  = board.Cross
	Naught = board.Naught
)

// Pos is a board coordinate.
type Pos = board.Pos

// State is a caller-owned Gomoku position. Its ID is a correlation
// handle for callers (cmd/httpmove and cmd/term do not use it); it
// carries no weight in search or rules.
type State struct {
	ID    uuid.UUID
	inner *state.State
}

// CreateState creates a fresh position. boardSize must be 15 or 19.
func CreateState(boardSize int, seed int64) (*State, error) {
	inner, err := state.New(boardSize, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceExhausted, err)
	}
	return &State{ID: uuid.New(), inner: inner}, nil
}

// ApplyMove places a stone for side at (x, y). On ErrIllegalMove the
// State is unchanged.
func ApplyMove(s *State, x, y int, side Cell) error {
	if err := s.inner.MakeMove(board.Pos{X: x, Y: y}, side); err != nil {
		return ErrIllegalMove
	}
	return nil
}

// UndoMove reverts the most recent ApplyMove.
func UndoMove(s *State) error {
	if err := s.inner.Undo(); err != nil {
		return ErrNothingToUndo
	}
	return nil
}

// StatusKind tags a GameStatus result as a typed enum rather than a
// stringly-typed value.
type StatusKind int

const (
	InProgress StatusKind = iota
	Win
	Draw
)

// Status reports whether the game is still in progress, decided, or
// drawn. Winner is only meaningful when Kind == Win.
type Status struct {
	Kind   StatusKind
	Winner Cell
}

// At returns the cell at (x, y). It is the only way a front-end reads
// board contents without reaching into an internal package — the core
// renders nothing itself.
func (s *State) At(x, y int) Cell {
	return s.inner.Board.At(x, y)
}

// Size returns the board's side length.
func (s *State) Size() int {
	return s.inner.Board.Size()
}

// GameStatus reports whether s is still in progress, decided, or drawn.
func GameStatus(s *State) Status {
	if s.inner.Winner(board.Cross) {
		return Status{Kind: Win, Winner: board.Cross}
	}
	if s.inner.Winner(board.Naught) {
		return Status{Kind: Win, Winner: board.Naught}
	}
	size := s.inner.Board.Size()
	if s.inner.Board.StoneCount() == size*size {
		return Status{Kind: Draw}
	}
	return Status{Kind: InProgress}
}

// MoveResult is FindBestMove's return value.
type MoveResult struct {
	Move           Pos
	Score          int
	DepthReached   int
	NodesEvaluated int
	TimedOut       bool
	WinningMove    bool
}

// Engine owns a worker pool and the searchers built on it: a
// front-end constructs one Engine (or several, to isolate concurrent
// games) and passes States to it explicitly, rather than relying on
// any process-wide shared pool.
type Engine struct {
	driver *engine.Driver
}

// NewEngine starts a pool of poolSize workers. poolSize is clamped to
// [1, 64]; a caller unsure of a good value should use NewDefaultEngine.
func NewEngine(poolSize int) *Engine {
	return &Engine{driver: engine.New(engine.NewPool(poolSize))}
}

// NewDefaultEngine sizes its pool at hardware_concurrency - 1.
func NewDefaultEngine() *Engine {
	return NewEngine(engine.DefaultPoolSize())
}

// OnDepthComplete installs the optional iterative-deepening progress
// hook, invoked once per completed depth from whichever path
// (sequential or parallel) FindBestMove takes.
func (e *Engine) OnDepthComplete(fn func(depth int, move Pos, score int)) {
	e.driver.Searcher.OnDepthComplete = fn
}

// FindBestMove searches for the best move for side. A zero deadline
// means no wall-clock limit; maxDepth always bounds the search.
func (e *Engine) FindBestMove(s *State, side Cell, maxDepth int, deadline time.Time) (MoveResult, error) {
	if GameStatus(s).Kind != InProgress {
		return MoveResult{}, ErrGameOver
	}
	r := e.driver.FindBestMove(s.inner, side, maxDepth, deadline)
	if !r.HasMove {
		return MoveResult{}, ErrGameOver
	}
	return MoveResult{
		Move:           r.Move,
		Score:          r.Score,
		DepthReached:   r.DepthReached,
		NodesEvaluated: r.NodesEvaluated,
		TimedOut:       r.TimedOut,
		WinningMove:    r.WinningMove,
	}, nil
}

// Close stops the Engine's worker pool, joining every worker. An
// Engine is unusable after Close.
func (e *Engine) Close() {
	e.driver.Pool.Stop()
}
