package engine

import (
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kigster/gomoku/internal/board"
	"github.com/kigster/gomoku/internal/eval"
	"github.com/kigster/gomoku/internal/search"
	"github.com/kigster/gomoku/internal/state"
)

// maxParallelRootTasks caps how many root candidates fan out to the
// pool at once, regardless of pool size or candidate count: beyond
// this the coordination overhead outweighs the benefit of one more
// concurrent subtree.
const maxParallelRootTasks = 8

// Driver is the root-parallel search driver. It owns a Pool and a
// Searcher used both for sequential delegation and as the per-task
// minimax implementation.
type Driver struct {
	Pool     *Pool
	Searcher *search.Searcher
	Logger   *log.Logger
}

// New builds a Driver over pool, delegating sequential work and
// per-task minimax calls to a fresh Searcher.
func New(pool *Pool) *Driver {
	return &Driver{
		Pool:     pool,
		Searcher: search.New(),
		Logger:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logger == nil {
		return
	}
	d.Logger.Printf("[engine] "+format, args...)
}

// FindBestMove is the parallel entry point. It only parallelizes at
// the root: branch-level parallel minimax would need far more
// cross-goroutine coordination for a much smaller return, so each
// worker owns one full root subtree instead.
func (d *Driver) FindBestMove(st *state.State, side board.Cell, maxDepth int, deadline time.Time) search.Result {
	// Opening positions and any deadline-bounded search delegate
	// entirely to the sequential path — fan-out doesn't help an
	// already-tiny candidate set, and a hard deadline is simplest to
	// honor with a single clock-checking recursion rather than
	// coordinating cancellation across a worker batch.
	if st.Board.StoneCount() < 2 || !deadline.IsZero() {
		return d.Searcher.FindBestMove(st, side, maxDepth, deadline)
	}

	var best search.Result
	for depth := 1; depth <= maxDepth; depth++ {
		r, ok := d.searchDepth(st, side, depth, deadline)
		if !ok {
			break
		}
		best = r
		d.logf("depth %d complete: move=%v score=%d nodes=%d", depth, r.Move, r.Score, r.NodesEvaluated)
		if d.Searcher.OnDepthComplete != nil {
			d.Searcher.OnDepthComplete(depth, r.Move, r.Score)
		}
		if r.WinningMove {
			break
		}
	}
	if !best.HasMove {
		return d.Searcher.FindBestMove(st, side, maxDepth, deadline)
	}
	return best
}

type rootOutcome struct {
	pos   board.Pos
	score int
}

// searchDepth runs one full root-parallel pass at depth: generate and
// sort root candidates, short-circuit an immediate win, fan some of
// them out to the pool with a shared alpha floor, then finish any
// remainder sequentially, and aggregate deterministically.
func (d *Driver) searchDepth(st *state.State, side board.Cell, depth int, deadline time.Time) (search.Result, bool) {
	cands := d.Searcher.RootCandidates(st, side, depth)
	if len(cands) == 0 {
		return search.Result{}, false
	}
	if eval.FastThreatEstimate(st.Board, cands[0], side) >= search.ImmediateWinThreshold {
		return search.Result{
			Move: cands[0], Score: search.Win, DepthReached: depth,
			WinningMove: true, HasMove: true,
		}, true
	}
	if len(cands) == 1 {
		return d.evaluateOne(st, side, depth, cands[0], search.NegInf, deadline)
	}

	p := len(cands)
	if d.Pool.Size() < p {
		p = d.Pool.Size()
	}
	if p > maxParallelRootTasks {
		p = maxParallelRootTasks
	}

	var sharedAlpha atomic.Int64
	sharedAlpha.Store(int64(search.NegInf))
	var timedOut atomic.Bool
	var combined search.Stats
	var statsMu sync.Mutex

	results := make([]rootOutcome, p)
	var wg sync.WaitGroup
	wg.Add(p)
	for i := 0; i < p; i++ {
		i, pos := i, cands[i]
		d.Pool.Submit(func() {
			defer wg.Done()
			score, taskTimedOut, stats := d.runTask(st, side, depth, pos, int(sharedAlpha.Load()), deadline)
			if taskTimedOut {
				timedOut.Store(true)
			}
			raiseFloor(&sharedAlpha, score)

			statsMu.Lock()
			addStats(&combined, stats)
			statsMu.Unlock()

			results[i] = rootOutcome{pos: pos, score: score}
		})
	}
	wg.Wait()

	best := results[0]
	for _, r := range results[1:] {
		// Strict improvement only: ties keep the earliest-submitted
		// candidate, which — since cands is already sorted by tier,
		// priority, then (y, x) — is also the lowest (y, x) among equal
		// scores at the same tier/priority. This keeps the chosen move
		// independent of how many workers ran or in what order they
		// finished.
		if r.score > best.score {
			best = r
		}
	}

	// Remaining candidates run sequentially on the caller's thread; the
	// sticky timeout flag aborts anything left.
	for i := p; i < len(cands); i++ {
		if timedOut.Load() {
			d.logf("depth %d: timeout flag set, abandoning %d remaining root candidates", depth, len(cands)-i)
			break
		}
		pos := cands[i]
		score, taskTimedOut, stats := d.runTask(st, side, depth, pos, int(sharedAlpha.Load()), deadline)
		if taskTimedOut {
			timedOut.Store(true)
		}
		addStats(&combined, stats)
		raiseFloor(&sharedAlpha, score)
		if score > best.score {
			best = rootOutcome{pos: pos, score: score}
		}
	}

	return search.Result{
		Move:           best.pos,
		Score:          best.score,
		DepthReached:   depth,
		NodesEvaluated: combined.NodesEvaluated,
		TimedOut:       timedOut.Load(),
		WinningMove:    best.score >= search.Win,
		HasMove:        true,
		Stats:          combined,
	}, true
}

// evaluateOne handles the "only one candidate" shortcut: fanning a
// single task out to the pool would only add scheduling latency.
func (d *Driver) evaluateOne(st *state.State, side board.Cell, depth int, pos board.Pos, alpha int, deadline time.Time) (search.Result, bool) {
	score, timedOut, stats := d.runTask(st, side, depth, pos, alpha, deadline)
	return search.Result{
		Move: pos, Score: score, DepthReached: depth,
		NodesEvaluated: stats.NodesEvaluated, TimedOut: timedOut,
		WinningMove: score >= search.Win, HasMove: true, Stats: stats,
	}, true
}

// runTask clones state, applies pos for side, and calls straight into
// minimax with the shared alpha floor — the body of a single root
// task, shared by the parallel fan-out, its sequential remainder, and
// the single-candidate shortcut.
func (d *Driver) runTask(st *state.State, side board.Cell, depth int, pos board.Pos, alpha int, deadline time.Time) (score int, timedOut bool, stats search.Stats) {
	clone := st.Clone()
	clone.MakeMove(pos, side)
	score = d.Searcher.Minimax(clone, depth-1, alpha, search.PosInf, false, side, pos, deadline, &stats, &timedOut)
	return score, timedOut, stats
}

// raiseFloor publishes score into alpha only if it improves on the
// current value, via a CAS loop since multiple workers race to update
// it concurrently.
func raiseFloor(alpha *atomic.Int64, score int) {
	for {
		cur := alpha.Load()
		if int64(score) <= cur {
			return
		}
		if alpha.CompareAndSwap(cur, int64(score)) {
			return
		}
	}
}

func addStats(dst *search.Stats, other search.Stats) {
	dst.NodesEvaluated += other.NodesEvaluated
	dst.TTProbes += other.TTProbes
	dst.TTHits += other.TTHits
	dst.TTStoresExact += other.TTStoresExact
	dst.TTStoresLower += other.TTStoresLower
	dst.TTStoresUpper += other.TTStoresUpper
	dst.KillerCutoffs += other.KillerCutoffs
}
