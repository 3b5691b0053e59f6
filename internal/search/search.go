// Package search implements the single-threaded search core: minimax
// with alpha-beta pruning, iterative deepening with deadline
// salvage, and the move-ordering heuristics that make both practical.
package search

import (
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/kigster/gomoku/internal/board"
	"github.com/kigster/gomoku/internal/eval"
	"github.com/kigster/gomoku/internal/state"
	"github.com/kigster/gomoku/internal/ttable"
)

// PriorityFloor is PRIORITY_FLOOR: at nodes with more than 2 plies of
// remaining depth, candidates whose ordering priority falls under this
// are skipped entirely rather than searched (if every candidate falls
// under it, the best-ordered one is still searched).
const PriorityFloor = 10

// Win mirrors eval.Win so callers of this package don't need to import
// eval just to recognize a decisive score.
const Win = eval.Win

// ImmediateWinThreshold is the fast-threat-estimate floor a move must
// clear to count as "creates an immediate win" during ordering. The
// parallel driver reuses this to replicate the same immediate-win
// short-circuit at the root before fanning out to the pool.
const ImmediateWinThreshold = 100_000

const (
	negInf = -(Win + 1_000_000)
	posInf = Win + 1_000_000
)

// NegInf and PosInf are the alpha/beta bounds a fresh root search
// starts from, exposed for the parallel driver's per-task calls into
// Minimax.
const (
	NegInf = negInf
	PosInf = posInf
)

// Stats collects the diagnostic counters a caller (or the optional
// progress stream) might want from a completed search.
type Stats struct {
	NodesEvaluated int
	TTProbes       int
	TTHits         int
	TTStoresExact  int
	TTStoresLower  int
	TTStoresUpper  int
	KillerCutoffs  int
	DepthElapsed   []time.Duration
}

// Result is the outcome of FindBestMove: either the salvaged result of
// the deepest completed iteration, or an immediate-win/opening move
// that never entered the iterative-deepening loop.
type Result struct {
	Move           board.Pos
	Score          int
	DepthReached   int
	NodesEvaluated int
	TimedOut       bool
	WinningMove    bool
	HasMove        bool
	Stats          Stats
}

// Searcher runs the sequential search on a single Position State. It
// holds no state of its own beyond its logger and callback — a
// Searcher is safe to reuse across unrelated searches and States.
type Searcher struct {
	Logger *log.Logger

	// OnDepthComplete, if set, is invoked once per completed
	// iterative-deepening depth, before the loop proceeds to the next
	// depth. Purely a diagnostic hook; nil changes no behavior.
	OnDepthComplete func(depth int, move board.Pos, score int)
}

// New returns a Searcher logging to stderr in the bracketed-tag style
// used throughout this codebase.
func New() *Searcher {
	return &Searcher{Logger: log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *Searcher) logf(format string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf("[search] "+format, args...)
}

const (
	tierWin = iota
	tierBlock
	tierKiller
	tierOther
)

type candidate struct {
	pos      board.Pos
	tier     int
	priority int
}

// less is the deterministic total order shared by the sequential
// search and the parallel driver: tier ascending (immediate win,
// then block, then killer, then everything else by priority), and
// within a tier, lowest (y, x) wins every remaining tie. This keeps
// move selection deterministic even when two candidates otherwise
// score identically.
func less(a, b candidate) bool {
	if a.tier != b.tier {
		return a.tier < b.tier
	}
	if a.tier == tierOther && a.priority != b.priority {
		return a.priority > b.priority
	}
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	return a.pos.X < b.pos.X
}

func priorityOf(st *state.State, pos board.Pos, ownThreat int) int {
	size := st.Board.Size()
	center := size / 2
	dx, dy := pos.X-center, pos.Y-center
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	centerBias := size - (dx + dy)
	return centerBias + ownThreat
}

// orderedCandidates generates the candidate move set and sorts it:
// immediate wins, then blocks, then killers for depth, then priority
// descending.
func (s *Searcher) orderedCandidates(st *state.State, side board.Cell, depth int) []candidate {
	positions := st.EnumerateCandidates()
	opponent := side.Opponent()
	out := make([]candidate, 0, len(positions))
	for _, pos := range positions {
		own := eval.FastThreatEstimate(st.Board, pos, side)
		opp := eval.FastThreatEstimate(st.Board, pos, opponent)

		tier := tierOther
		switch {
		case own >= ImmediateWinThreshold:
			tier = tierWin
		case opp >= ImmediateWinThreshold:
			tier = tierBlock
		case st.Killers.IsKiller(depth, pos):
			tier = tierKiller
		}

		out = append(out, candidate{
			pos:      pos,
			tier:     tier,
			priority: priorityOf(st, pos, own),
		})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// FindBestMove runs iterative deepening over max_depth, honoring
// deadline and the stone_count==1 opening rule. Callers are
// responsible for checking game-over status before calling.
func (s *Searcher) FindBestMove(st *state.State, side board.Cell, maxDepth int, deadline time.Time) Result {
	if st.Board.StoneCount() == 1 {
		return s.openingReply(st)
	}

	var stats Stats
	var timedOut bool
	var best Result

	for depth := 1; depth <= maxDepth; depth++ {
		depthStart := time.Now()
		cands := s.orderedCandidates(st, side, depth)
		if len(cands) == 0 {
			break
		}
		if cands[0].tier == tierWin {
			stats.DepthElapsed = append(stats.DepthElapsed, time.Since(depthStart))
			best = Result{
				Move:         cands[0].pos,
				Score:        Win,
				DepthReached: depth,
				WinningMove:  true,
				HasMove:      true,
			}
			s.logf("depth %d: immediate win at %v", depth, best.Move)
			if s.OnDepthComplete != nil {
				s.OnDepthComplete(depth, best.Move, best.Score)
			}
			break
		}

		depthTimedOut := false
		bestScore := negInf - 1
		var bestMove board.Pos
		hasBest := false
		for _, c := range cands {
			if !deadline.IsZero() && time.Now().After(deadline) {
				depthTimedOut = true
				timedOut = true
				break
			}
			st.MakeMove(c.pos, side)
			score := s.minimax(st, depth-1, negInf, posInf, false, side, c.pos, deadline, &stats, &timedOut)
			st.Undo()
			if !hasBest || score > bestScore {
				bestScore = score
				bestMove = c.pos
				hasBest = true
			}
		}
		stats.DepthElapsed = append(stats.DepthElapsed, time.Since(depthStart))

		if depthTimedOut {
			// Never adopt a partial depth's result.
			s.logf("depth %d: timed out mid-iteration, salvaging depth %d", depth, depth-1)
			break
		}
		if !hasBest {
			break
		}
		best = Result{
			Move:         bestMove,
			Score:        bestScore,
			DepthReached: depth,
			WinningMove:  bestScore >= Win,
			HasMove:      true,
		}
		s.logf("depth %d complete: move=%v score=%d nodes=%d", depth, bestMove, bestScore, stats.NodesEvaluated)
		if s.OnDepthComplete != nil {
			s.OnDepthComplete(depth, bestMove, bestScore)
		}
		if bestScore >= Win {
			break
		}
	}

	if !best.HasMove {
		// Even depth 1 never finished a single candidate (deadline hit
		// immediately): salvage the best-ordered candidate rather than
		// returning no move at all when legal moves exist.
		if cands := s.orderedCandidates(st, side, 1); len(cands) > 0 {
			best = Result{Move: cands[0].pos, HasMove: true}
			timedOut = true
		}
	}

	best.TimedOut = timedOut
	best.NodesEvaluated = stats.NodesEvaluated
	best.Stats = stats
	return best
}

// RootCandidates exposes the same root move generation and ordering
// FindBestMove uses internally, for the parallel driver's fan-out.
func (s *Searcher) RootCandidates(st *state.State, side board.Cell, depth int) []board.Pos {
	cands := s.orderedCandidates(st, side, depth)
	out := make([]board.Pos, len(cands))
	for i, c := range cands {
		out[i] = c.pos
	}
	return out
}

// Minimax exposes the recursive search core for the parallel driver's
// per-task root evaluation: each task clones the state, applies its
// root candidate, then calls straight into this with the shared alpha
// floor.
func (s *Searcher) Minimax(
	st *state.State,
	depth int,
	alpha, beta int,
	maximizing bool,
	rootSide board.Cell,
	lastMove board.Pos,
	deadline time.Time,
	stats *Stats,
	timedOut *bool,
) int {
	return s.minimax(st, depth, alpha, beta, maximizing, rootSide, lastMove, deadline, stats, timedOut)
}

// openingReply implements the special opening rule: with exactly one
// stone on the board, reply with a uniformly random empty cell at
// Chebyshev distance 1 or 2 from it, never invoking minimax. The
// random source is seeded from the current Zobrist hash, so the same
// seed and state always produce the same reply.
func (s *Searcher) openingReply(st *state.State) Result {
	size := st.Board.Size()
	stone, found := board.Pos{}, false
	for y := 0; y < size && !found; y++ {
		for x := 0; x < size; x++ {
			if st.Board.At(x, y) != board.Empty {
				stone = board.Pos{X: x, Y: y}
				found = true
				break
			}
		}
	}
	if !found {
		return Result{}
	}

	var options []board.Pos
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			adx, ady := dx, dy
			if adx < 0 {
				adx = -adx
			}
			if ady < 0 {
				ady = -ady
			}
			cheb := adx
			if ady > cheb {
				cheb = ady
			}
			if cheb != 1 && cheb != 2 {
				continue
			}
			x, y := stone.X+dx, stone.Y+dy
			if x < 0 || x >= size || y < 0 || y >= size {
				continue
			}
			if !st.Board.IsEmpty(x, y) {
				continue
			}
			options = append(options, board.Pos{X: x, Y: y})
		}
	}
	if len(options) == 0 {
		return Result{}
	}
	r := rand.New(rand.NewSource(int64(st.Zobrist())))
	pick := options[r.Intn(len(options))]
	s.logf("opening reply: %v", pick)
	return Result{Move: pick, HasMove: true}
}

// minimax is the recursive search core. maximizing reports
// whether the side to move at this node is rootSide; lastMove is the
// move that produced this node, used by the incremental evaluator.
func (s *Searcher) minimax(
	st *state.State,
	depth int,
	alpha, beta int,
	maximizing bool,
	rootSide board.Cell,
	lastMove board.Pos,
	deadline time.Time,
	stats *Stats,
	timedOut *bool,
) int {
	if !deadline.IsZero() && time.Now().After(deadline) {
		*timedOut = true
		return eval.PositionScoreIncremental(st.Board, rootSide, lastMove)
	}
	stats.NodesEvaluated++

	hash := st.Zobrist()
	stats.TTProbes++
	if v, ok := st.TT.Probe(hash, depth, alpha, beta); ok {
		stats.TTHits++
		return v
	}

	other := rootSide.Opponent()
	if st.Winner(rootSide) {
		return Win + depth
	}
	if st.Winner(other) {
		return -(Win + depth)
	}
	if depth == 0 {
		return eval.PositionScoreIncremental(st.Board, rootSide, lastMove)
	}

	side := rootSide
	if !maximizing {
		side = other
	}
	cands := s.orderedCandidates(st, side, depth)
	if depth > 2 {
		filtered := cands[:0]
		for _, c := range cands {
			if c.priority >= PriorityFloor {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 && len(cands) > 0 {
			filtered = cands[:1]
		}
		cands = filtered
	}
	if len(cands) == 0 {
		return eval.PositionScoreIncremental(st.Board, rootSide, lastMove)
	}

	var best board.Pos
	hasBest := false
	cutoff := false
	var bestScore int

	if maximizing {
		bestScore = negInf - 1
		for _, c := range cands {
			if !deadline.IsZero() && time.Now().After(deadline) {
				*timedOut = true
				break
			}
			st.MakeMove(c.pos, side)
			score := s.minimax(st, depth-1, alpha, beta, false, rootSide, c.pos, deadline, stats, timedOut)
			st.Undo()
			if !hasBest || score > bestScore {
				bestScore = score
				best = c.pos
				hasBest = true
			}
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				cutoff = true
				st.Killers.Store(depth, c.pos)
				stats.KillerCutoffs++
				break
			}
		}
	} else {
		bestScore = posInf + 1
		for _, c := range cands {
			if !deadline.IsZero() && time.Now().After(deadline) {
				*timedOut = true
				break
			}
			st.MakeMove(c.pos, side)
			score := s.minimax(st, depth-1, alpha, beta, true, rootSide, c.pos, deadline, stats, timedOut)
			st.Undo()
			if !hasBest || score < bestScore {
				bestScore = score
				best = c.pos
				hasBest = true
			}
			if score < beta {
				beta = score
			}
			if alpha >= beta {
				cutoff = true
				st.Killers.Store(depth, c.pos)
				stats.KillerCutoffs++
				break
			}
		}
	}

	if !hasBest {
		return eval.PositionScoreIncremental(st.Board, rootSide, lastMove)
	}

	var flag ttable.Flag
	switch {
	case cutoff && maximizing:
		flag = ttable.LowerBound
	case cutoff && !maximizing:
		flag = ttable.UpperBound
	default:
		flag = ttable.Exact
	}
	switch flag {
	case ttable.Exact:
		stats.TTStoresExact++
	case ttable.LowerBound:
		stats.TTStoresLower++
	case ttable.UpperBound:
		stats.TTStoresUpper++
	}
	st.TT.Store(hash, bestScore, depth, flag, best, hasBest)
	return bestScore
}
