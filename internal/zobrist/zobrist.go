// Package zobrist generates the per-(side, position) random key table
// used to incrementally hash a board position.
package zobrist

import (
	"math/rand"

	"github.com/kigster/gomoku/internal/board"
)

// sides indexes the key table; Empty never needs a key.
const sides = 2 // Cross, Naught

// Table is a fixed schedule of 2*N^2 random 64-bit keys, generated
// once per position from a reproducible seed and treated as immutable
// afterwards: clones share the same *Table by reference rather than
// each regenerating or copying it.
type Table struct {
	size int
	keys []uint64 // [side-1][y][x] flattened
}

// New builds a Table for an N x N board from seed. The same seed
// always yields the same keys, so a fixed seed makes hashing — and
// everything keyed off it — fully reproducible.
func New(size int, seed int64) *Table {
	r := rand.New(rand.NewSource(seed))
	t := &Table{size: size, keys: make([]uint64, sides*size*size)}
	for i := range t.keys {
		t.keys[i] = r.Uint64()
	}
	return t
}

func sideIndex(side board.Cell) int {
	switch side {
	case board.Cross:
		return 0
	case board.Naught:
		return 1
	default:
		return -1
	}
}

// Key returns the random key for (side, x, y). Empty has no key; Key
// panics if called with Empty, since callers only ever XOR keys for
// occupied cells.
func (t *Table) Key(side board.Cell, x, y int) uint64 {
	si := sideIndex(side)
	if si < 0 {
		panic("zobrist: Key called with Empty side")
	}
	return t.keys[si*t.size*t.size+y*t.size+x]
}

// Hash computes the XOR-fold hash of every occupied cell on b from
// scratch, independent of the order moves were applied in. Used to
// validate incremental hashing.
func (t *Table) Hash(b *board.Board) uint64 {
	var h uint64
	size := b.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cell := b.At(x, y)
			if cell == board.Empty {
				continue
			}
			h ^= t.Key(cell, x, y)
		}
	}
	return h
}
