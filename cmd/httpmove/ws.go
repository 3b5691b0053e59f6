package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kigster/gomoku"
)

// upgrader follows the gorilla/websocket library's standard pattern
// for promoting an HTTP request to a duplex connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// progressSocket owns one /ws/search connection: a single in-flight
// search reported to a single subscriber. It only needs a buffered
// send channel plus a dedicated writer goroutine — not a full
// register/unregister hub, since nothing here broadcasts a single
// search's progress to more than the caller who asked for it.
type progressSocket struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

func newProgressSocket(conn *websocket.Conn) *progressSocket {
	return &progressSocket{
		conn: conn,
		send: make(chan []byte, 32),
		done: make(chan struct{}),
	}
}

// writePump drains send onto the socket, one writer per connection as
// gorilla/websocket requires (concurrent writes from multiple
// goroutines are not safe on a single *websocket.Conn). Once send is
// closed it writes every queued frame, then a close frame, and exits,
// closing done.
func (p *progressSocket) writePump() {
	defer close(p.done)
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-p.send:
			_ = p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = p.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (p *progressSocket) publish(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case p.send <- b:
	default:
		// a stalled reader shouldn't block the search; drop the frame.
	}
}

func (p *progressSocket) close() {
	close(p.send)
	<-p.done
	_ = p.conn.Close()
}

// handleWSSearch is GET /ws/search: the caller opens a socket, sends
// one moveRequest frame, and receives one depthEvent per completed
// iterative-deepening depth followed by a final moveResponse,
// mirroring the engine's OnDepthComplete callback over a socket
// instead of an in-process channel.
func (srv *server) handleWSSearch(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.logger.Printf("ws upgrade: %v", err)
		return
	}

	var req moveRequest
	if err := conn.ReadJSON(&req); err != nil {
		srv.logger.Printf("ws read: %v", err)
		conn.Close()
		return
	}

	requestID := uuid.New().String()
	sock := newProgressSocket(conn)
	go sock.writePump()
	defer sock.close()

	state, side, err := replay(req)
	if err != nil {
		sock.publish(errorResponse{Error: err.Error()})
		return
	}

	// A dedicated Engine per live search, not srv.engine: OnDepthComplete
	// is a single callback field on the shared Searcher, so two
	// concurrent /ws/search callers sharing one Engine would race each
	// other's progress frames onto the wrong socket.
	poolSize := srv.cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	engine := gomoku.NewEngine(poolSize)
	defer engine.Close()
	engine.OnDepthComplete(func(depth int, move gomoku.Pos, score int) {
		sock.publish(depthEvent{
			RequestID: requestID,
			Depth:     depth,
			Move:      pos{X: move.X, Y: move.Y},
			Score:     score,
		})
	})

	depth, deadline := req.depthAndDeadline(srv.cfg)
	result, err := engine.FindBestMove(state, side, depth, deadline)
	if err != nil {
		sock.publish(errorResponse{Error: err.Error()})
		return
	}

	moves := append(append([]moveIn{}, req.Moves...), moveIn{
		X: result.Move.X, Y: result.Move.Y, Side: wireOf(side),
	})
	sock.publish(moveResponse{
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
