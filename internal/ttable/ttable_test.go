package ttable

import (
	"testing"

	"github.com/kigster/gomoku/internal/board"
)

func TestProbe_MissOnEmptyTable(t *testing.T) {
	tt := New(0)
	if _, ok := tt.Probe(42, 1, -100, 100); ok {
		t.Errorf("expected miss on empty table")
	}
}

func TestStoreThenProbe_Exact(t *testing.T) {
	tt := New(0)
	tt.Store(42, 500, 3, Exact, board.Pos{X: 1, Y: 1}, true)
	v, ok := tt.Probe(42, 3, -1000, 1000)
	if !ok || v != 500 {
		t.Errorf("Probe = (%d, %v), want (500, true)", v, ok)
	}
}

func TestProbe_RejectsShallowerStoredDepth(t *testing.T) {
	tt := New(0)
	tt.Store(42, 500, 2, Exact, board.Pos{}, false)
	if _, ok := tt.Probe(42, 5, -1000, 1000); ok {
		t.Errorf("expected miss: requested depth exceeds stored depth")
	}
}

func TestProbe_LowerBoundOnlyUsableAboveBeta(t *testing.T) {
	tt := New(0)
	tt.Store(42, 500, 3, LowerBound, board.Pos{}, false)
	if _, ok := tt.Probe(42, 3, -1000, 600); ok {
		t.Errorf("LowerBound(500) should not be usable with beta=600")
	}
	if v, ok := tt.Probe(42, 3, -1000, 400); !ok || v != 500 {
		t.Errorf("LowerBound(500) should be usable with beta=400, got (%d,%v)", v, ok)
	}
}

func TestProbe_UpperBoundOnlyUsableBelowAlpha(t *testing.T) {
	tt := New(0)
	tt.Store(42, 500, 3, UpperBound, board.Pos{}, false)
	if _, ok := tt.Probe(42, 3, 400, 1000); ok {
		t.Errorf("UpperBound(500) should not be usable with alpha=400")
	}
	if v, ok := tt.Probe(42, 3, 600, 1000); !ok || v != 500 {
		t.Errorf("UpperBound(500) should be usable with alpha=600, got (%d,%v)", v, ok)
	}
}

func TestStore_ReplacementPolicy(t *testing.T) {
	tt := New(0)
	tt.Store(7, 111, 5, Exact, board.Pos{}, false)
	tt.Store(7, 222, 2, Exact, board.Pos{}, false) // shallower: must not replace
	if v, _ := tt.Probe(7, 5, -1000, 1000); v != 111 {
		t.Errorf("shallower store overwrote deeper entry: got %d", v)
	}
	tt.Store(7, 333, 5, Exact, board.Pos{}, false) // equal depth: replaces
	if v, _ := tt.Probe(7, 5, -1000, 1000); v != 333 {
		t.Errorf("equal-depth store did not replace: got %d", v)
	}
}

func TestKillers_StoreAndIsKiller(t *testing.T) {
	k := NewKillers()
	p1 := board.Pos{X: 1, Y: 1}
	p2 := board.Pos{X: 2, Y: 2}
	p3 := board.Pos{X: 3, Y: 3}

	k.Store(4, p1)
	k.Store(4, p2)
	if !k.IsKiller(4, p1) || !k.IsKiller(4, p2) {
		t.Errorf("expected both killers recorded")
	}
	k.Store(4, p3) // evicts the oldest (p1)
	if k.IsKiller(4, p1) {
		t.Errorf("oldest killer should have been evicted")
	}
	if !k.IsKiller(4, p2) || !k.IsKiller(4, p3) {
		t.Errorf("expected p2 and p3 to remain killers")
	}
}

func TestKillers_NoDuplicateOnRestore(t *testing.T) {
	k := NewKillers()
	p1 := board.Pos{X: 1, Y: 1}
	p2 := board.Pos{X: 2, Y: 2}
	k.Store(1, p1)
	k.Store(1, p2)
	k.Store(1, p1) // already present, should not duplicate/evict p2
	if !k.IsKiller(1, p2) {
		t.Errorf("re-storing an existing killer evicted a different one")
	}
}
