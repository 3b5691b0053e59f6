// Package state implements a Gomoku position: a Board plus the
// derived caches that search depends on — stone count (delegated to
// Board), winner cache, interesting-squares membership and the
// incrementally maintained Zobrist hash.
package state

import (
	"errors"

	"github.com/kigster/gomoku/internal/board"
	"github.com/kigster/gomoku/internal/ttable"
	"github.com/kigster/gomoku/internal/zobrist"
)

// TTCapacity is the default transposition table size each state
// allocates for itself.
const TTCapacity = 1 << 20

// ErrIllegalMove is returned by MakeMove when pos is off-board,
// already occupied, or side is Empty.
var ErrIllegalMove = errors.New("state: illegal move")

// ErrNothingToUndo is returned by Undo when the move history is empty.
var ErrNothingToUndo = errors.New("state: nothing to undo")

// RInt is R_INT: the Chebyshev radius defining interesting-square
// membership around existing stones.
const RInt = 2

type move struct {
	pos  board.Pos
	side board.Cell
}

// State owns a Board and every cache that must stay coherent with it
// across make/unmake. It is the sole owner of its Board; clones
// are independent owners that share only the read-only Zobrist
// schedule.
type State struct {
	Board    *board.Board
	zobrist  *zobrist.Table
	hash     uint64
	toMove   board.Cell
	history  []move
	neighbor []int16 // per-cell count of non-empty cells within RInt

	winnerValid  bool
	winnerCross  bool
	winnerNaught bool

	// TT and Killers belong to this State. Each clone gets its own
	// fresh instance rather than a copy of the parent's contents: a
	// freshly-cloned state differs by exactly one move from its parent,
	// so most cached entries would be near-misses anyway, and starting
	// empty means no clone ever shares a table with another goroutine,
	// so the table's lock is never contended on the search hot path.
	TT      *ttable.Table
	Killers *ttable.Killers
}

// New creates an empty Position State on an N x N board (N in
// {15, 19}) with a fresh Zobrist key schedule generated from seed.
// Cross moves first by convention.
func New(size int, seed int64) (*State, error) {
	b, err := board.New(size)
	if err != nil {
		return nil, err
	}
	return &State{
		Board:       b,
		zobrist:     zobrist.New(size, seed),
		toMove:      board.Cross,
		neighbor:    make([]int16, size*size),
		winnerValid: true, // an empty board has no winner; cache starts valid
		TT:          ttable.New(TTCapacity),
		Killers:     ttable.NewKillers(),
	}, nil
}

// ToMove returns the side the state currently expects to move.
func (s *State) ToMove() board.Cell { return s.toMove }

// SetToMove overrides whose turn it is, used by callers that replay a
// move list out of band from MakeMove's automatic alternation (e.g.
// reconstructing a state for a specific side to analyze).
func (s *State) SetToMove(side board.Cell) { s.toMove = side }

func (s *State) idx(p board.Pos) int { return p.Y*s.Board.Size() + p.X }

// MakeMove validates and applies a move, XORs the Zobrist hash,
// invalidates the winner cache, and updates the interesting-square
// neighbor counts. It is the single mutation primitive used both by
// callers (ApplyMove, via the gomoku facade) and by search's
// make/unmake recursion.
func (s *State) MakeMove(pos board.Pos, side board.Cell) error {
	if side == board.Empty || !s.Board.IsEmpty(pos.X, pos.Y) {
		return ErrIllegalMove
	}
	s.Board.Set(pos.X, pos.Y, side)
	s.hash ^= s.zobrist.Key(side, pos.X, pos.Y)
	s.adjustNeighbors(pos, 1)
	s.winnerValid = false
	s.toMove = side.Opponent()
	s.history = append(s.history, move{pos: pos, side: side})
	return nil
}

// Undo reverses the most recent MakeMove. It is the only way the
// Board is mutated outside of MakeMove.
func (s *State) Undo() error {
	if len(s.history) == 0 {
		return ErrNothingToUndo
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.Board.Set(last.pos.X, last.pos.Y, board.Empty)
	s.hash ^= s.zobrist.Key(last.side, last.pos.X, last.pos.Y)
	s.adjustNeighbors(last.pos, -1)
	s.winnerValid = false
	s.toMove = last.side
	return nil
}

func (s *State) adjustNeighbors(pos board.Pos, delta int16) {
	size := s.Board.Size()
	for dy := -RInt; dy <= RInt; dy++ {
		for dx := -RInt; dx <= RInt; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			x, y := pos.X+dx, pos.Y+dy
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			s.neighbor[y*size+x] += delta
		}
	}
}

// Winner reports whether side currently has five-in-a-row, using a
// cache that both sides share and that a single validity bit guards.
func (s *State) Winner(side board.Cell) bool {
	if !s.winnerValid {
		s.winnerCross = s.Board.HasFive(board.Cross)
		s.winnerNaught = s.Board.HasFive(board.Naught)
		s.winnerValid = true
	}
	if side == board.Cross {
		return s.winnerCross
	}
	return s.winnerNaught
}

// EnumerateCandidates returns every empty position within Chebyshev
// RInt of a stone. On an empty board this is the 5x5 region centered
// on the board.
func (s *State) EnumerateCandidates() []board.Pos {
	size := s.Board.Size()
	if s.Board.StoneCount() == 0 {
		center := size / 2
		out := make([]board.Pos, 0, 25)
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				x, y := center+dx, center+dy
				if x >= 0 && x < size && y >= 0 && y < size {
					out = append(out, board.Pos{X: x, Y: y})
				}
			}
		}
		return out
	}

	out := make([]board.Pos, 0, 64)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if s.neighbor[y*size+x] > 0 && s.Board.IsEmpty(x, y) {
				out = append(out, board.Pos{X: x, Y: y})
			}
		}
	}
	return out
}

// Zobrist returns the current incrementally-maintained hash.
func (s *State) Zobrist() uint64 { return s.hash }

// ZobristTable exposes the shared, read-only key schedule so clones
// and the transposition table can hash consistently.
func (s *State) ZobristTable() *zobrist.Table { return s.zobrist }

// Clone returns an independently-owned deep copy: its own Board and
// caches, but a shared reference to the immutable Zobrist schedule.
// The clone starts with empty undo history — the root-parallel driver
// only ever applies one further move to a clone before searching it.
func (s *State) Clone() *State {
	neighbor := make([]int16, len(s.neighbor))
	copy(neighbor, s.neighbor)
	return &State{
		Board:        s.Board.Clone(),
		zobrist:      s.zobrist,
		hash:         s.hash,
		toMove:       s.toMove,
		neighbor:     neighbor,
		winnerValid:  s.winnerValid,
		winnerCross:  s.winnerCross,
		winnerNaught: s.winnerNaught,
		TT:           ttable.New(TTCapacity),
		Killers:      ttable.NewKillers(),
	}
}
