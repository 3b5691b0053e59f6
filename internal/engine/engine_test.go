package engine

import (
	"testing"
	"time"

	"github.com/kigster/gomoku/internal/board"
	"github.com/kigster/gomoku/internal/state"
)

func buildMidGame(t *testing.T, seed int64) *state.State {
	t.Helper()
	s, err := state.New(board.Size15, seed)
	if err != nil {
		t.Fatalf("state.New: %v", err)
	}
	s.MakeMove(board.Pos{X: 7, Y: 7}, board.Cross)
	s.MakeMove(board.Pos{X: 8, Y: 8}, board.Naught)
	s.MakeMove(board.Pos{X: 7, Y: 8}, board.Cross)
	s.MakeMove(board.Pos{X: 6, Y: 6}, board.Naught)
	return s
}

// Parallel and sequential search agree on score at the same depth,
// and the result doesn't depend on how many workers ran it.
func TestFindBestMove_ParallelMatchesSequentialScore(t *testing.T) {
	seqState := buildMidGame(t, 99)
	sequential := New(NewPool(1)).Searcher.FindBestMove(seqState, board.Cross, 3, time.Time{})

	par1 := buildMidGame(t, 99)
	d1 := New(NewPool(1))
	parallel1 := d1.FindBestMove(par1, board.Cross, 3, time.Time{})

	par8 := buildMidGame(t, 99)
	d8 := New(NewPool(8))
	parallel8 := d8.FindBestMove(par8, board.Cross, 3, time.Time{})

	if parallel1.Score != sequential.Score {
		t.Errorf("1-worker parallel score %d != sequential score %d", parallel1.Score, sequential.Score)
	}
	if parallel8.Score != sequential.Score {
		t.Errorf("8-worker parallel score %d != sequential score %d", parallel8.Score, sequential.Score)
	}
	if parallel1.Move != parallel8.Move {
		t.Errorf("thread count changed the chosen move: %v (1 worker) vs %v (8 workers)", parallel1.Move, parallel8.Move)
	}

	d1.Pool.Stop()
	d8.Pool.Stop()
}

// An opening position (stone_count < 2) always delegates to the
// sequential path regardless of pool size.
func TestFindBestMove_EarlyReturnOnOpening(t *testing.T) {
	s, _ := state.New(board.Size19, 1)
	s.MakeMove(board.Pos{X: 9, Y: 9}, board.Cross)

	d := New(NewPool(4))
	defer d.Pool.Stop()
	r := d.FindBestMove(s, board.Naught, 2, time.Time{})
	if !r.HasMove {
		t.Fatalf("expected a move from the opening delegate")
	}
}

// A deadline-bounded search delegates to sequential too.
func TestFindBestMove_EarlyReturnOnDeadline(t *testing.T) {
	s := buildMidGame(t, 1)
	d := New(NewPool(4))
	defer d.Pool.Stop()
	r := d.FindBestMove(s, board.Cross, 4, time.Now().Add(20*time.Millisecond))
	if !r.HasMove {
		t.Fatalf("expected a salvaged move under a deadline")
	}
}

// The driver never returns an occupied or off-board position.
func TestFindBestMove_NeverReturnsIllegalMove(t *testing.T) {
	s := buildMidGame(t, 5)
	d := New(NewPool(4))
	defer d.Pool.Stop()
	r := d.FindBestMove(s, board.Naught, 2, time.Time{})
	if !r.HasMove {
		t.Fatalf("expected a move")
	}
	if !s.Board.InBounds(r.Move.X, r.Move.Y) || !s.Board.IsEmpty(r.Move.X, r.Move.Y) {
		t.Errorf("illegal move returned: %v", r.Move)
	}
}

func TestPool_SubmitAndStop(t *testing.T) {
	p := NewPool(3)
	if p.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", p.Size())
	}
	done := make(chan int, 10)
	for i := 0; i < 10; i++ {
		i := i
		p.Submit(func() { done <- i })
	}
	seen := 0
	for seen < 10 {
		<-done
		seen++
	}
	p.Stop()
}

func TestDefaultPoolSize_Clamped(t *testing.T) {
	n := DefaultPoolSize()
	if n < MinPoolSize || n > MaxPoolSize {
		t.Errorf("DefaultPoolSize() = %d, out of [%d,%d]", n, MinPoolSize, MaxPoolSize)
	}
}
