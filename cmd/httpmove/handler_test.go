package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testServer() *server {
	return newServer(&Config{
		Addr:          ":0",
		DefaultDepth:  2,
		DefaultBudget: 500 * time.Millisecond,
		PoolSize:      1,
	})
}

func TestHandleMove_EmptyBoardRespondsCentral(t *testing.T) {
	srv := testServer()
	defer srv.engine.Close()

	body, _ := json.Marshal(moveRequest{BoardSize: 19, Seed: 1, Side: "X"})
	req := httptest.NewRequest(http.MethodPost, "/move", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.handleMove(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp moveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Move.X < 7 || resp.Move.X > 11 || resp.Move.Y < 7 || resp.Move.Y > 11 {
		t.Errorf("opening move %+v outside [7,11]^2", resp.Move)
	}
}

func TestHandleMove_ReplaysMoveList(t *testing.T) {
	srv := testServer()
	defer srv.engine.Close()

	req := moveRequest{
		BoardSize: 15,
		Seed:      2,
		Side:      "O",
		Moves: []moveIn{
			{X: 7, Y: 7, Side: "X"},
			{X: 8, Y: 8, Side: "O"},
			{X: 6, Y: 6, Side: "X"},
		},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/move", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.handleMove(w, httpReq)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestHandleMove_RejectsBadSide(t *testing.T) {
	srv := testServer()
	defer srv.engine.Close()

	body, _ := json.Marshal(moveRequest{BoardSize: 15, Seed: 1, Side: "Z"})
	req := httptest.NewRequest(http.MethodPost, "/move", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.handleMove(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleMove_RejectsWrongMethod(t *testing.T) {
	srv := testServer()
	defer srv.engine.Close()

	req := httptest.NewRequest(http.MethodGet, "/move", nil)
	w := httptest.NewRecorder()

	srv.handleMove(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleMove_GameOverReturnsUnprocessable(t *testing.T) {
	srv := testServer()
	defer srv.engine.Close()

	req := moveRequest{
		BoardSize: 15,
		Seed:      3,
		Side:      "O",
		Moves: []moveIn{
			{X: 0, Y: 0, Side: "X"}, {X: 1, Y: 0, Side: "X"},
			{X: 2, Y: 0, Side: "X"}, {X: 3, Y: 0, Side: "X"},
			{X: 4, Y: 0, Side: "X"},
		},
	}
	body, _ := json.Marshal(req)
	httpReq := httptest.NewRequest(http.MethodPost, "/move", bytes.NewReader(body))
	w := httptest.NewRecorder()

	srv.handleMove(w, httpReq)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d, body = %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
}

func TestSideOf_RoundTrips(t *testing.T) {
	for _, s := range []string{"X", "O"} {
		c, ok := sideOf(s)
		if !ok {
			t.Fatalf("sideOf(%q) rejected a valid side", s)
		}
		if wireOf(c) != s {
			t.Errorf("wireOf(sideOf(%q)) = %q, want %q", s, wireOf(c), s)
		}
	}
	if _, ok := sideOf("?"); ok {
		t.Errorf("sideOf(\"?\") should be rejected")
	}
}
