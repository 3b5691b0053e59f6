// Command term is a minimal terminal front-end for the engine: it
// drives an alternating apply_move/find_best_move loop and prints the
// board as plain text. No ANSI escapes, no TTY detection, no
// keyboard-input library; the front-end stays as plain as possible
// and leaves presentation concerns to whatever wraps it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kigster/gomoku"
)

func main() {
	size := flag.Int("size", 15, "board size (15 or 19)")
	seed := flag.Int64("seed", time.Now().UnixNano(), "zobrist seed")
	depth := flag.Int("depth", 6, "max search depth for the computer side")
	budget := flag.Duration("budget", 2*time.Second, "wall-clock budget per computer move (0 disables the deadline)")
	pool := flag.Int("pool", 0, "worker pool size (0 = hardware_concurrency - 1)")
	flag.Parse()

	state, err := gomoku.CreateState(*size, *seed)
	if err != nil {
		log.Fatalf("[term] CreateState: %v", err)
	}

	var engine *gomoku.Engine
	if *pool > 0 {
		engine = gomoku.NewEngine(*pool)
	} else {
		engine = gomoku.NewDefaultEngine()
	}
	defer engine.Close()
	engine.OnDepthComplete(func(depth int, move gomoku.Pos, score int) {
		fmt.Printf("  ... depth %d: %s score=%d\n", depth, formatPos(move), score)
	})

	human := gomoku.Cross
	computer := gomoku.Naught
	fmt.Printf("New game on a %dx%d board (seed=%d). You are X, the engine is O.\n", *size, *size, *seed)
	fmt.Println(`Enter moves as "x y" (0-indexed), or "undo".`)

	reader := bufio.NewScanner(os.Stdin)
	for {
		printBoard(state, *size)

		status := gomoku.GameStatus(state)
		if status.Kind != gomoku.InProgress {
			printOutcome(status)
			return
		}

		fmt.Print("your move> ")
		if !reader.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(reader.Text())
		if line == "undo" {
			if err := gomoku.UndoMove(state); err != nil {
				fmt.Printf("  %v\n", err)
			}
			continue
		}

		x, y, err := parseMove(line)
		if err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}
		if err := gomoku.ApplyMove(state, x, y, human); err != nil {
			fmt.Printf("  %v\n", err)
			continue
		}

		if gomoku.GameStatus(state).Kind != gomoku.InProgress {
			continue
		}

		deadline := time.Time{}
		if *budget > 0 {
			deadline = time.Now().Add(*budget)
		}
		result, err := engine.FindBestMove(state, computer, *depth, deadline)
		if err != nil {
			fmt.Printf("  engine: %v\n", err)
			continue
		}
		if err := gomoku.ApplyMove(state, result.Move.X, result.Move.Y, computer); err != nil {
			log.Fatalf("[term] engine produced an illegal move %v: %v", result.Move, err)
		}
		fmt.Printf("engine plays %s (score=%d depth=%d nodes=%d timed_out=%v)\n",
			formatPos(result.Move), result.Score, result.DepthReached, result.NodesEvaluated, result.TimedOut)
	}
}

func parseMove(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"x y\", got %q", line)
	}
	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad x coordinate: %v", err)
	}
	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad y coordinate: %v", err)
	}
	return x, y, nil
}

func formatPos(p gomoku.Pos) string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func printBoard(s *gomoku.State, size int) {
	for y := 0; y < size; y++ {
		var row strings.Builder
		for x := 0; x < size; x++ {
			row.WriteString(s.At(x, y).String())
			row.WriteByte(' ')
		}
		fmt.Println(row.String())
	}
}

func printOutcome(status gomoku.Status) {
	switch status.Kind {
	case gomoku.Win:
		fmt.Printf("Game over: %s wins.\n", status.Winner)
	case gomoku.Draw:
		fmt.Println("Game over: draw.")
	}
}
