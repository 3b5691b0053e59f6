package gomoku

import (
	"testing"
	"time"
)

func TestCreateState_RejectsBadSize(t *testing.T) {
	if _, err := CreateState(13, 1); err == nil {
		t.Fatalf("expected an error for an unsupported board size")
	}
}

func TestApplyMove_IllegalOnOccupiedCell(t *testing.T) {
	s, err := CreateState(15, 1)
	if err != nil {
		t.Fatalf("CreateState: %v", err)
	}
	if err := ApplyMove(s, 7, 7, Cross); err != nil {
		t.Fatalf("first move: %v", err)
	}
	if err := ApplyMove(s, 7, 7, Naught); err != ErrIllegalMove {
		t.Errorf("ApplyMove on occupied cell = %v, want ErrIllegalMove", err)
	}
}

func TestUndoMove_NothingToUndo(t *testing.T) {
	s, _ := CreateState(15, 1)
	if err := UndoMove(s); err != ErrNothingToUndo {
		t.Errorf("UndoMove on fresh state = %v, want ErrNothingToUndo", err)
	}
}

// GameStatus reflects five-in-a-row through the facade, including the
// overline rule.
func TestGameStatus_WinAndOverline(t *testing.T) {
	s, _ := CreateState(15, 1)
	for x := 0; x < 5; x++ {
		if err := ApplyMove(s, 7+x, 7, Cross); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
	}
	status := GameStatus(s)
	if status.Kind != Win || status.Winner != Cross {
		t.Errorf("GameStatus = %+v, want Win/Cross", status)
	}

	s2, _ := CreateState(15, 1)
	for x := 0; x < 6; x++ {
		if err := ApplyMove(s2, 7+x, 7, Cross); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
	}
	if GameStatus(s2).Kind == Win {
		t.Errorf("six-in-a-row should not report Win (overline rule)")
	}
}

// An engine reports a winning move with the checkmate marker.
func TestEngine_FindBestMove_WinningMove(t *testing.T) {
	s, _ := CreateState(19, 1)
	for y := 0; y <= 2; y++ {
		if err := ApplyMove(s, 7, y, Cross); err != nil {
			t.Fatalf("ApplyMove: %v", err)
		}
		if y < 2 {
			if err := ApplyMove(s, 0, y, Naught); err != nil {
				t.Fatalf("ApplyMove: %v", err)
			}
		}
	}
	if err := ApplyMove(s, 7, 3, Cross); err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}

	e := NewEngine(2)
	defer e.Close()
	r, err := e.FindBestMove(s, Cross, 2, time.Time{})
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if !r.WinningMove {
		t.Errorf("expected WinningMove=true, got %+v", r)
	}
}

// find_best_move on a finished game returns GameOver and performs
// no search.
func TestEngine_FindBestMove_GameOver(t *testing.T) {
	s, _ := CreateState(15, 1)
	for x := 0; x < 5; x++ {
		ApplyMove(s, 7+x, 7, Cross)
	}
	e := NewEngine(1)
	defer e.Close()
	if _, err := e.FindBestMove(s, Naught, 2, time.Time{}); err != ErrGameOver {
		t.Errorf("FindBestMove on finished game = %v, want ErrGameOver", err)
	}
}

// An empty 19x19 state's opening move lands in the central 5x5.
func TestEngine_FindBestMove_OpeningIsCentral(t *testing.T) {
	s, _ := CreateState(19, 1)
	e := NewEngine(1)
	defer e.Close()
	r, err := e.FindBestMove(s, Cross, 1, time.Time{})
	if err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if r.Move.X < 7 || r.Move.X > 11 || r.Move.Y < 7 || r.Move.Y > 11 {
		t.Errorf("opening move %v outside [7,11]^2", r.Move)
	}
}

func TestEngine_OnDepthComplete_Invoked(t *testing.T) {
	s, _ := CreateState(15, 1)
	ApplyMove(s, 7, 7, Cross)
	ApplyMove(s, 8, 8, Naught)
	ApplyMove(s, 6, 6, Cross)

	e := NewEngine(1)
	defer e.Close()
	depths := 0
	e.OnDepthComplete(func(depth int, move Pos, score int) { depths++ })
	if _, err := e.FindBestMove(s, Naught, 2, time.Time{}); err != nil {
		t.Fatalf("FindBestMove: %v", err)
	}
	if depths == 0 {
		t.Errorf("expected OnDepthComplete to fire at least once")
	}
}

func TestRandomCallsign_NonEmpty(t *testing.T) {
	if RandomCallsign() == "" {
		t.Errorf("RandomCallsign returned empty string")
	}
}
