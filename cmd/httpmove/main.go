// Command httpmove is a stateless HTTP move service: POST /move
// replays a move list and returns the engine's chosen move; GET
// /ws/search does the same over a websocket, streaming one frame per
// completed iterative-deepening depth along the way. The service
// itself holds no game state across requests.
package main

import (
	"log"
	"net/http"
)

func main() {
	cfg := LoadConfig()
	srv := newServer(cfg)
	defer srv.engine.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/move", srv.handleMove)
	mux.HandleFunc("/ws/search", srv.handleWSSearch)

	srv.logger.Printf("listening on %s (default depth=%d, default budget=%s, pool=%d)",
		cfg.Addr, cfg.DefaultDepth, cfg.DefaultBudget, cfg.PoolSize)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("[httpmove] ListenAndServe: %v", err)
	}
}
