// Package ttable implements the transposition table and killer-move
// heuristics: a fixed-capacity, open-addressed cache of previously
// searched positions, and a small per-ply list of recent cutoff moves
// used to bias move ordering.
package ttable

import (
	"sync"

	"github.com/kigster/gomoku/internal/board"
)

// Flag records which kind of alpha-beta bound a stored value represents.
type Flag int

const (
	Exact Flag = iota
	LowerBound
	UpperBound
)

// MinCapacity is the smallest table size allowed: enough entries that
// collisions stay rare during a deep search on a 19x19 board.
const MinCapacity = 100_000

type entry struct {
	hash    uint64
	value   int
	depth   int
	flag    Flag
	best    board.Pos
	hasBest bool
	occupied bool
}

// Table is a fixed-capacity, hash-indexed transposition cache. It is
// safe for concurrent probe/store from multiple goroutines, guarded by
// a single RWMutex over a flat slice — open addressing directly on the
// Zobrist hash avoids the allocation and hashing overhead of a
// map-backed cache at this call frequency.
type Table struct {
	mu      sync.RWMutex
	entries []entry
}

// New allocates a table with the given capacity, raised to MinCapacity
// if smaller.
func New(capacity int) *Table {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Table{entries: make([]entry, capacity)}
}

func (t *Table) slot(hash uint64) int {
	return int(hash % uint64(len(t.entries)))
}

// Probe returns the stored value for hash iff the stored entry's depth
// is at least depth and its bound flag makes the value usable against
// the current (alpha, beta) window.
func (t *Table) Probe(hash uint64, depth, alpha, beta int) (value int, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.entries[t.slot(hash)]
	if !e.occupied || e.hash != hash || e.depth < depth {
		return 0, false
	}
	switch e.flag {
	case Exact:
		return e.value, true
	case LowerBound:
		if e.value >= beta {
			return e.value, true
		}
	case UpperBound:
		if e.value <= alpha {
			return e.value, true
		}
	}
	return 0, false
}

// BestMove returns the best move recorded for hash, if any, regardless
// of whether the stored value itself is usable at the requested depth.
// The search's move ordering does not consult it.
func (t *Table) BestMove(hash uint64) (board.Pos, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e := t.entries[t.slot(hash)]
	if !e.occupied || e.hash != hash || !e.hasBest {
		return board.Pos{}, false
	}
	return e.best, true
}

// Store writes an entry, replacing the existing occupant only if the
// incoming depth is at least as deep or the slot was empty — a
// shallower result is never allowed to overwrite a deeper one.
func (t *Table) Store(hash uint64, value, depth int, flag Flag, best board.Pos, hasBest bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := t.slot(hash)
	cur := &t.entries[idx]
	if cur.occupied && cur.depth > depth {
		return
	}
	cur.hash = hash
	cur.value = value
	cur.depth = depth
	cur.flag = flag
	cur.best = best
	cur.hasBest = hasBest
	cur.occupied = true
}

// KKillers is K_KILL: the number of killer moves retained per ply.
const KKillers = 2

// Killers tracks, for each remaining-depth ply, up to KKillers recent
// moves that caused a beta cutoff there. Indexed directly by depth;
// MaxPly bounds how deep a single search can go before killer tracking
// silently stops recording (move ordering degrades gracefully, never
// panics).
const MaxPly = 128

type Killers struct {
	moves [MaxPly][KKillers]board.Pos
	valid [MaxPly][KKillers]bool
}

// NewKillers returns an empty killer-move table.
func NewKillers() *Killers { return &Killers{} }

// Store pushes pos to the front of depth's killer list if it isn't
// already present, evicting the oldest entry.
func (k *Killers) Store(depth int, pos board.Pos) {
	if depth < 0 || depth >= MaxPly {
		return
	}
	for i := 0; i < KKillers; i++ {
		if k.valid[depth][i] && k.moves[depth][i] == pos {
			return
		}
	}
	for i := KKillers - 1; i > 0; i-- {
		k.moves[depth][i] = k.moves[depth][i-1]
		k.valid[depth][i] = k.valid[depth][i-1]
	}
	k.moves[depth][0] = pos
	k.valid[depth][0] = true
}

// IsKiller reports whether pos is a recorded killer move at depth.
func (k *Killers) IsKiller(depth int, pos board.Pos) bool {
	if depth < 0 || depth >= MaxPly {
		return false
	}
	for i := 0; i < KKillers; i++ {
		if k.valid[depth][i] && k.moves[depth][i] == pos {
			return true
		}
	}
	return false
}
